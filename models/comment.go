package models

import "time"

// Comment is a reply on a post, carrying the same author snapshot a post does.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"-"`
	UserID    uint      `gorm:"index;not null" json:"user"`
	Name      string    `gorm:"size:64" json:"name"`
	Avatar    string    `gorm:"size:512" json:"avatar"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"date"`
}

package models

import "time"

// Post represents a post published by a user. Name and avatar are snapshots of
// the author at creation time and are not kept in sync with later edits.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user"`
	Name      string    `gorm:"size:64" json:"name"`
	Avatar    string    `gorm:"size:512" json:"avatar"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Likes     []Like    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"likes"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`
	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"-"`
}

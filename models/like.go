package models

import "time"

// Like marks that a user liked a post. The composite unique index guarantees a
// user can like a given post at most once.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"uniqueIndex:idx_likes_post_user;not null" json:"-"`
	UserID    uint      `gorm:"uniqueIndex:idx_likes_post_user;not null" json:"user"`
	CreatedAt time.Time `json:"-"`
}

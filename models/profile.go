package models

import "time"

// Profile is a user's extended public record. Exactly one per user, enforced
// by the unique index on UserID.
type Profile struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"uniqueIndex;not null" json:"user_id"`
	Company        string       `gorm:"size:255" json:"company,omitempty"`
	Website        string       `gorm:"size:512" json:"website,omitempty"`
	Location       string       `gorm:"size:255" json:"location,omitempty"`
	Bio            string       `gorm:"type:text" json:"bio,omitempty"`
	Status         string       `gorm:"size:255;not null" json:"status"`
	GitHubUsername string       `gorm:"size:64" json:"githubusername,omitempty"`
	Skills         StringList   `gorm:"type:text" json:"skills"`
	Social         SocialLinks  `gorm:"embedded;embeddedPrefix:social_" json:"social"`
	Experience     []Experience `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"experience"`
	Education      []Education  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"education"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	User           User         `json:"user"`
}

// SocialLinks holds optional social network URLs. All fields are optional; an
// empty set serializes as {}.
type SocialLinks struct {
	YouTube   string `gorm:"size:512" json:"youtube,omitempty"`
	Facebook  string `gorm:"size:512" json:"facebook,omitempty"`
	Twitter   string `gorm:"size:512" json:"twitter,omitempty"`
	Instagram string `gorm:"size:512" json:"instagram,omitempty"`
	LinkedIn  string `gorm:"size:512" json:"linkedin,omitempty"`
}

// Experience is a single work history entry. Lists are read newest-first so a
// fresh entry always lands at index 0.
type Experience struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProfileID   uint       `gorm:"index;not null" json:"-"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Company     string     `gorm:"size:255;not null" json:"company"`
	Location    string     `gorm:"size:255" json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time  `json:"-"`
}

// Education is a single schooling entry, ordered like Experience.
type Education struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProfileID    uint       `gorm:"index;not null" json:"-"`
	School       string     `gorm:"size:255;not null" json:"school"`
	Degree       string     `gorm:"size:255;not null" json:"degree"`
	FieldOfStudy string     `gorm:"size:255;not null" json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt    time.Time  `json:"-"`
}

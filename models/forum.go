package models

import "time"

// Forum is a topic community ("game" in the product UI) containing posts.
// MemberCount and PostCount are denormalized counters maintained alongside
// membership and post mutations.
type Forum struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	MemberCount int       `gorm:"not null;default:0" json:"member_count"`
	PostCount   int       `gorm:"not null;default:0" json:"post_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Posts []Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"posts,omitempty"`

	// Filled per viewer, never persisted.
	IsMember bool `gorm:"-" json:"is_member"`
}

// UserGame is the user<->forum pivot. IsMember distinguishes actual membership
// from a plain favorite; both share the one pivot row.
type UserGame struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	UserID   uint       `gorm:"not null;uniqueIndex:idx_user_games_user_forum" json:"user_id"`
	ForumID  uint       `gorm:"not null;uniqueIndex:idx_user_games_user_forum" json:"forum_id"`
	IsMember bool       `gorm:"not null;default:false" json:"is_member"`
	JoinedAt *time.Time `json:"joined_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical pivot name.
func (UserGame) TableName() string { return "user_games" }

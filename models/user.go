package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a community member. Passwords are stored as bcrypt hashes only.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email          string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash   string         `gorm:"size:255;not null" json:"-"`
	Role           string         `gorm:"size:16;not null;default:user" json:"role"`
	Bio            string         `gorm:"size:512" json:"bio"`
	ProfilePicture string         `gorm:"size:512" json:"profile_picture"`
	Banner         string         `gorm:"size:512" json:"banner"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Posts []Post  `json:"-"`
	Games []Forum `gorm:"many2many:user_games;" json:"games,omitempty"`

	// Filled per request, never persisted.
	FollowerCount  int64 `gorm:"-" json:"follower_count"`
	FollowingCount int64 `gorm:"-" json:"following_count"`
	IsFollowing    bool  `gorm:"-" json:"is_following,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the reduced identity shape embedded in listings and messages.
type PublicUser struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// Public returns the reduced identity shape for the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

package models

import (
	"fmt"
	"time"
)

// Conversation is a set of participants sharing an ordered message history.
// DyadKey is the canonical sorted-pair key for two-party conversations and
// gives O(1) existence checks; group conversations would leave it empty and
// rely on the membership pivot alone.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DyadKey   string    `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Users    []User    `gorm:"many2many:conversation_user;" json:"users,omitempty"`
	Messages []Message `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"messages,omitempty"`
}

// ConversationUser is the membership pivot between conversations and users.
type ConversationUser struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;uniqueIndex:idx_conversation_user_pair" json:"conversation_id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_conversation_user_pair" json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName keeps the pivot name singular to match the historical schema.
func (ConversationUser) TableName() string { return "conversation_user" }

// Message belongs to a conversation and an author. IsRead means "read by
// someone other than the sender"; adequate for two-party conversations only.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversation_id"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	Content        string    `gorm:"size:1000;not null" json:"content"`
	IsRead         bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`

	User User `json:"user,omitempty"`
}

// MakeDyadKey returns the canonical key for a two-party conversation.
func MakeDyadKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// FindOrCreateConversation returns the single two-party conversation between
// a and b, creating it (with both membership rows) when absent. Existence is
// an O(1) lookup on the canonical dyad key; a lost race on the unique key is
// resolved by re-reading the winner's row.
func FindOrCreateConversation(db *gorm.DB, a, b uint) (*Conversation, error) {
	key := MakeDyadKey(a, b)

	var conv Conversation
	err := db.Where("dyad_key = ?", key).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		conv = Conversation{DyadKey: key}
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		members := []ConversationUser{
			{ConversationID: conv.ID, UserID: a},
			{ConversationID: conv.ID, UserID: b},
		}
		return tx.Create(&members).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if err := db.Where("dyad_key = ?", key).First(&conv).Error; err != nil {
			return nil, err
		}
		return &conv, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// SendMessage finds or creates the dyad conversation and appends the message
// in one transaction, so a failure can never leave an empty conversation. The
// conversation's updated_at moves with every message; ConversationsFor orders
// by it, so the listing tracks recent activity.
func SendMessage(db *gorm.DB, fromID, toID uint, content string) (*Message, error) {
	var msg *Message
	err := db.Transaction(func(tx *gorm.DB) error {
		conv, err := FindOrCreateConversation(tx, fromID, toID)
		if err != nil {
			return err
		}
		msg = &Message{ConversationID: conv.ID, UserID: fromID, Content: content}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&Conversation{}).Where("id = ?", conv.ID).
			UpdateColumn("updated_at", time.Now()).Error; err != nil {
			return err
		}
		return tx.Preload("User").First(msg, msg.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// IsParticipant reports whether the user belongs to the conversation.
func IsParticipant(db *gorm.DB, conversationID, userID uint) (bool, error) {
	var n int64
	err := db.Model(&ConversationUser{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&n).Error
	return n > 0, err
}

// ConversationsFor lists the viewer's conversations with the other party,
// last message and unread count resolved per conversation.
func ConversationsFor(db *gorm.DB, viewerID uint) ([]ConversationSummary, error) {
	var convs []Conversation
	err := db.Joins("JOIN conversation_user ON conversation_user.conversation_id = conversations.id").
		Where("conversation_user.user_id = ?", viewerID).
		Preload("Users").
		Order("conversations.updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		s := ConversationSummary{ID: conv.ID}
		for _, u := range conv.Users {
			if u.ID != viewerID {
				pub := u.Public()
				s.OtherUser = &pub
				break
			}
		}

		var last Message
		err := db.Where("conversation_id = ?", conv.ID).Order("created_at DESC").First(&last).Error
		if err == nil {
			s.LastMessage = &LastMessage{Content: last.Content, CreatedAt: last.CreatedAt}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		unread, err := UnreadCount(db, conv.ID, viewerID)
		if err != nil {
			return nil, err
		}
		s.UnreadCount = unread
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// UnreadCount counts messages in the conversation not authored by the viewer
// and not yet marked read.
func UnreadCount(db *gorm.DB, conversationID, viewerID uint) (int64, error) {
	var n int64
	err := db.Model(&Message{}).
		Where("conversation_id = ? AND user_id != ? AND is_read = ?", conversationID, viewerID, false).
		Count(&n).Error
	return n, err
}

// FetchMessages returns the conversation history oldest first and marks the
// other party's messages read. Coupling the read-state mutation to the fetch
// is intentional: opening a conversation is what reading means here.
func FetchMessages(db *gorm.DB, conversationID, viewerID uint) ([]Message, error) {
	err := db.Model(&Message{}).
		Where("conversation_id = ? AND user_id != ? AND is_read = ?", conversationID, viewerID, false).
		UpdateColumn("is_read", true).Error
	if err != nil {
		return nil, err
	}

	var messages []Message
	err = db.Where("conversation_id = ?", conversationID).
		Preload("User").
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// ConversationSummary is the list shape for the conversations endpoint.
type ConversationSummary struct {
	ID          uint         `json:"id"`
	OtherUser   *PublicUser  `json:"other_user"`
	LastMessage *LastMessage `json:"last_message"`
	UnreadCount int64        `json:"unread_count"`
}

// LastMessage is the preview of the newest message in a conversation.
type LastMessage struct {
	Content   string `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

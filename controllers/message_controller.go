package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gamehive/backend/models"
	"github.com/gamehive/backend/utils"
)

// MessageController serves direct-message conversations.
type MessageController struct {
	db *gorm.DB
}

// NewMessageController creates a MessageController.
func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{db: db}
}

// Conversations lists the viewer's conversations with the other party, last
// message preview and unread count.
func (m *MessageController) Conversations(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	summaries, err := models.ConversationsFor(m.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to fetch conversations")
		return
	}
	utils.Success(ctx, summaries)
}

// Messages returns the history of one conversation, oldest first. Opening the
// conversation marks the other party's messages read as a side effect.
func (m *MessageController) Messages(ctx *gin.Context) {
	conversationID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid conversation id")
		return
	}
	userID, _ := getUserID(ctx)

	member, err := models.IsParticipant(m.db, conversationID, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to check membership")
		return
	}
	if !member {
		utils.Error(ctx, http.StatusForbidden, "not a participant of this conversation")
		return
	}

	messages, err := models.FetchMessages(m.db, conversationID, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to fetch messages")
		return
	}
	utils.Success(ctx, messages)
}

// Send delivers a message to :username, finding or creating the dyad
// conversation and inserting the message in one transaction.
func (m *MessageController) Send(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required,max=1000"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	var recipient models.User
	err := m.db.Where("username = ?", ctx.Param("username")).First(&recipient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}

	userID, _ := getUserID(ctx)
	if recipient.ID == userID {
		utils.Error(ctx, http.StatusBadRequest, "you cannot message yourself")
		return
	}

	msg, err := models.SendMessage(m.db, userID, recipient.ID, req.Content)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to send message")
		return
	}
	utils.Success(ctx, gin.H{"message": msg})
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gamehive/backend/models"
	"github.com/gamehive/backend/utils"
)

// CommentController manages threaded comments and comment votes.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// Create adds a comment to a post. With a parent_id the comment threads under
// an existing comment of the same post; only root comments move the post's
// comment_count, and they do so in the same transaction as the insert.
func (c *CommentController) Create(ctx *gin.Context) {
	var req struct {
		Content  string `json:"content" binding:"required"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", "content cannot be empty")
		return
	}

	postID, ok := parseUintParam(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid post id")
		return
	}
	var post models.Post
	if err := c.db.First(&post, postID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}

	if req.ParentID != nil {
		var parent models.Comment
		if err := c.db.First(&parent, *req.ParentID).Error; err != nil || parent.PostID != post.ID {
			utils.ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", "parent comment does not belong to this post")
			return
		}
	}

	userID, _ := getUserID(ctx)
	comment := models.Comment{
		PostID:   post.ID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  content,
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		if comment.ParentID == nil {
			return tx.Model(&models.Post{}).Where("id = ?", post.ID).
				UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create comment")
		return
	}

	if err := c.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}
	comment.Replies = []models.Comment{}
	utils.Success(ctx, gin.H{"message": "comment created successfully", "comment": comment})
}

// Delete removes a comment (owner or admin). Root comments give back their
// unit of the post's comment_count.
func (c *CommentController) Delete(ctx *gin.Context) {
	commentID, ok := parseUintParam(ctx, "commentId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid comment id")
		return
	}

	var comment models.Comment
	err := c.db.First(&comment, commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, "comment not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}

	userID, _ := getUserID(ctx)
	if comment.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, "you can only delete your own comment")
		return
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		if comment.ParentID == nil {
			return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
				UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// Like toggles the viewer's like on a comment.
func (c *CommentController) Like(ctx *gin.Context) {
	c.toggleVote(ctx, true, "comment like toggled successfully")
}

// Dislike toggles the viewer's dislike on a comment.
func (c *CommentController) Dislike(ctx *gin.Context) {
	c.toggleVote(ctx, false, "comment dislike toggled successfully")
}

func (c *CommentController) toggleVote(ctx *gin.Context, isLike bool, message string) {
	commentID, ok := parseUintParam(ctx, "commentId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid comment id")
		return
	}
	var comment models.Comment
	if err := c.db.First(&comment, commentID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "comment not found")
		return
	}

	userID, _ := getUserID(ctx)
	state, err := models.ToggleCommentVote(c.db, comment.ID, userID, isLike)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to toggle vote")
		return
	}

	utils.Success(ctx, gin.H{
		"message":     message,
		"likes":       state.Likes,
		"dislikes":    state.Dislikes,
		"is_liked":    state.IsLiked,
		"is_disliked": state.IsDisliked,
	})
}

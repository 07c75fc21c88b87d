package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/gamehive/backend/models"
	"github.com/gamehive/backend/utils"
)

// ForumController manages forums and membership.
type ForumController struct {
	db *gorm.DB
}

// NewForumController creates a ForumController.
func NewForumController(db *gorm.DB) *ForumController {
	return &ForumController{db: db}
}

// Index lists forums. ?sort=top orders by member count; ?limit caps the result.
func (f *ForumController) Index(ctx *gin.Context) {
	q := f.db.Model(&models.Forum{})
	if ctx.Query("sort") == "top" {
		q = q.Order("member_count DESC")
	} else {
		q = q.Order("name ASC")
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		q = q.Limit(limit)
	}

	var forums []models.Forum
	if err := q.Find(&forums).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list forums")
		return
	}
	utils.Success(ctx, gin.H{"forums": forums})
}

// Store creates a forum from a multipart form with an optional image.
func (f *ForumController) Store(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	name := strings.TrimSpace(ctx.PostForm("name"))
	description := strings.TrimSpace(ctx.PostForm("description"))
	if name == "" || len(name) > 255 || description == "" {
		utils.ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", "name and description are required")
		return
	}

	forum := models.Forum{
		UserID:      userID,
		Name:        name,
		Slug:        slug.Make(name),
		Description: utils.Sanitize(description),
	}

	if header, err := ctx.FormFile("image"); err == nil {
		url, err := utils.SaveImage(header, "forum_images")
		if err != nil {
			if errors.Is(err, utils.ErrImageInvalid) {
				utils.ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", err.Error())
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, "failed to store image")
			return
		}
		forum.ImageURL = url
	}

	if err := f.db.Create(&forum).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, "forum name already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to create forum")
		return
	}

	utils.Success(ctx, gin.H{"message": "forum created successfully", "forum": forum})
}

// Show returns a forum by slug with its posts newest first, each annotated
// with author, tags and the viewer's vote/save state.
func (f *ForumController) Show(ctx *gin.Context) {
	var forum models.Forum
	err := f.db.Where("slug = ?", ctx.Param("slug")).First(&forum).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, "forum not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load forum")
		return
	}

	var posts []models.Post
	err = f.db.Where("forum_id = ?", forum.ID).
		Preload("User").Preload("Tags").
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load posts")
		return
	}

	viewer := viewerID(ctx)
	if err := models.AnnotateViewerPostVotes(f.db, posts, viewer); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load vote state")
		return
	}
	if err := models.AnnotateViewerSaved(f.db, posts, viewer); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load saved state")
		return
	}

	if viewer != 0 {
		var n int64
		err := f.db.Model(&models.UserGame{}).
			Where("user_id = ? AND forum_id = ? AND is_member = ?", viewer, forum.ID, true).
			Count(&n).Error
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "failed to load membership")
			return
		}
		forum.IsMember = n > 0
	}

	utils.Success(ctx, gin.H{"forum": forum, "posts": posts})
}

// Join marks the current user as a member of the forum, creating or updating
// the pivot row and bumping member_count in one transaction.
func (f *ForumController) Join(ctx *gin.Context) {
	forumID, ok := parseUintParam(ctx, "slug")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid forum id")
		return
	}
	userID, _ := getUserID(ctx)

	var forum models.Forum
	if err := f.db.First(&forum, forumID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "forum not found")
		return
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		var pivot models.UserGame
		err := tx.Where("user_id = ? AND forum_id = ?", userID, forumID).First(&pivot).Error
		now := time.Now()
		switch {
		case err == nil:
			if pivot.IsMember {
				return nil
			}
			pivot.IsMember = true
			pivot.JoinedAt = &now
			if err := tx.Save(&pivot).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			pivot = models.UserGame{UserID: userID, ForumID: forumID, IsMember: true, JoinedAt: &now}
			if err := tx.Create(&pivot).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return tx.Model(&models.Forum{}).Where("id = ?", forumID).
			UpdateColumn("member_count", gorm.Expr("member_count + 1")).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to join forum")
		return
	}

	utils.Success(ctx, gin.H{"message": "successfully joined the forum"})
}

// Leave clears the membership flag and decrements member_count. The pivot row
// survives so the forum stays in the user's favorites.
func (f *ForumController) Leave(ctx *gin.Context) {
	forumID, ok := parseUintParam(ctx, "slug")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid forum id")
		return
	}
	userID, _ := getUserID(ctx)

	err := f.db.Transaction(func(tx *gorm.DB) error {
		var pivot models.UserGame
		err := tx.Where("user_id = ? AND forum_id = ? AND is_member = ?", userID, forumID, true).First(&pivot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		pivot.IsMember = false
		pivot.JoinedAt = nil
		if err := tx.Save(&pivot).Error; err != nil {
			return err
		}
		return tx.Model(&models.Forum{}).Where("id = ?", forumID).
			UpdateColumn("member_count", gorm.Expr("member_count - 1")).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to leave forum")
		return
	}

	utils.Success(ctx, gin.H{"message": "successfully left the forum"})
}

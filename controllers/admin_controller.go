package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gamehive/backend/models"
	"github.com/gamehive/backend/utils"
)

// AdminController serves the moderation surface: aggregate counts and the
// delete privileges reserved for the admin role.
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates an AdminController.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// Users lists every account with identity and role.
func (a *AdminController) Users(ctx *gin.Context) {
	var users []models.User
	if err := a.db.Order("id ASC").Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list users")
		return
	}

	type adminUser struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role})
	}
	utils.Success(ctx, gin.H{"users": out})
}

// Stats returns aggregate entity counts.
func (a *AdminController) Stats(ctx *gin.Context) {
	var users, posts, forums int64
	if err := a.db.Model(&models.User{}).Count(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count users")
		return
	}
	if err := a.db.Model(&models.Post{}).Count(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count posts")
		return
	}
	if err := a.db.Model(&models.Forum{}).Count(&forums).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count forums")
		return
	}

	utils.Success(ctx, gin.H{
		"total_users":  users,
		"total_posts":  posts,
		"total_forums": forums,
	})
}

// DeleteUser removes an account along with its posts, comments, votes,
// bookmarks, follow edges and memberships. Admin accounts cannot be deleted.
func (a *AdminController) DeleteUser(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid user id")
		return
	}

	var user models.User
	err := a.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user.IsAdmin() {
		utils.Error(ctx, http.StatusForbidden, "cannot delete admin user")
		return
	}

	if err := models.DeleteUserAccount(a.db, user.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete user")
		return
	}
	utils.Success(ctx, gin.H{"message": "user deleted successfully"})
}

// DeletePost removes any post, keeping its forum's post_count in step.
func (a *AdminController) DeletePost(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid post id")
		return
	}

	var post models.Post
	err := a.db.First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Forum{}).Where("id = ?", post.ForumID).
			UpdateColumn("post_count", gorm.Expr("post_count - 1")).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete post")
		return
	}
	utils.Success(ctx, gin.H{"message": "post deleted successfully"})
}

package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gamehive/backend/models"
	"github.com/gamehive/backend/utils"
)

// UserController serves public profiles and user search.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// Show returns a public profile: identity fields, follow counts, favorite
// games and the 10 most recent posts. Post vote state is resolved for the
// viewer with one IN-scoped lookup over exactly the returned post IDs, never
// the whole vote table. The response carries a short page-level cache header.
func (u *UserController) Show(ctx *gin.Context) {
	var user models.User
	err := u.db.Preload("Games").Where("username = ?", ctx.Param("username")).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}

	followers, following, err := models.FollowCounts(u.db, user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count follows")
		return
	}
	user.FollowerCount = followers
	user.FollowingCount = following

	viewer := viewerID(ctx)
	isFollowing := false
	if viewer != 0 {
		isFollowing, err = models.IsFollowing(u.db, viewer, user.ID)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "failed to load follow state")
			return
		}
	}

	posts, err := models.RecentPostsByUser(u.db, user.ID, 10)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load posts")
		return
	}
	if err := models.AnnotateViewerPostVotes(u.db, posts, viewer); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load vote state")
		return
	}
	if err := models.AnnotateViewerSaved(u.db, posts, viewer); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load saved state")
		return
	}

	ctx.Header("Cache-Control", "public, max-age=60")
	utils.Success(ctx, gin.H{
		"user":         user,
		"posts":        posts,
		"is_following": isFollowing,
	})
}

// Search finds users whose username contains the query, capped at 20.
func (u *UserController) Search(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	if q == "" {
		utils.Success(ctx, gin.H{"users": []models.PublicUser{}})
		return
	}

	var users []models.User
	err := u.db.Where("username LIKE ?", "%"+q+"%").
		Order("username ASC").
		Limit(20).
		Find(&users).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to search users")
		return
	}
	utils.Success(ctx, gin.H{"users": publicUsers(users)})
}

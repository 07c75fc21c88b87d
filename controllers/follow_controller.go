package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gamehive/backend/models"
	"github.com/gamehive/backend/utils"
)

// FollowController manages the directed follow graph between users.
type FollowController struct {
	db *gorm.DB
}

// NewFollowController creates a FollowController.
func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{db: db}
}

func (f *FollowController) userByUsername(ctx *gin.Context) (*models.User, bool) {
	var user models.User
	err := f.db.Where("username = ?", ctx.Param("username")).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, "user not found")
		return nil, false
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load user")
		return nil, false
	}
	return &user, true
}

// Follow makes the current user follow :username. Idempotent; self-follow is rejected.
func (f *FollowController) Follow(ctx *gin.Context) {
	target, ok := f.userByUsername(ctx)
	if !ok {
		return
	}
	userID, _ := getUserID(ctx)

	if err := models.Follow(f.db, userID, target.ID); err != nil {
		if errors.Is(err, models.ErrSelfFollow) {
			utils.Error(ctx, http.StatusBadRequest, "you cannot follow yourself")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to follow user")
		return
	}
	utils.Success(ctx, gin.H{"message": "followed successfully"})
}

// Unfollow removes the follow edge if present.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	target, ok := f.userByUsername(ctx)
	if !ok {
		return
	}
	userID, _ := getUserID(ctx)

	if err := models.Unfollow(f.db, userID, target.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to unfollow user")
		return
	}
	utils.Success(ctx, gin.H{"message": "unfollowed successfully"})
}

// Followers lists the users following :username.
func (f *FollowController) Followers(ctx *gin.Context) {
	target, ok := f.userByUsername(ctx)
	if !ok {
		return
	}
	users, err := models.Followers(f.db, target.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load followers")
		return
	}
	utils.Success(ctx, publicUsers(users))
}

// Following lists the users :username follows.
func (f *FollowController) Following(ctx *gin.Context) {
	target, ok := f.userByUsername(ctx)
	if !ok {
		return
	}
	users, err := models.Following(f.db, target.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load following")
		return
	}
	utils.Success(ctx, publicUsers(users))
}

func publicUsers(users []models.User) []models.PublicUser {
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}

package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gamehive/backend/config"
	"github.com/gamehive/backend/models"
	"github.com/gamehive/backend/utils"
)

// AuthController handles registration, login/logout and the current user's profile.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a local account with a bcrypt-hashed password and the user role.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Email                string `json:"email" binding:"required,email"`
		Username             string `json:"username" binding:"required,min=3,max=64"`
		Password             string `json:"password" binding:"required,min=6"`
		PasswordConfirmation string `json:"password_confirmation" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Password != req.PasswordConfirmation {
		utils.ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", "password confirmation does not match")
		return
	}

	var existing models.User
	if err := a.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, "username or email already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, "failed to check existing users")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, "username or email already taken")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to create user")
		return
	}

	utils.Success(ctx, gin.H{
		"message": "user registered successfully",
		"role":    user.Role,
	})
}

// Login verifies credentials and issues a bearer token carrying id, username and role.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	var user models.User
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !utils.CheckPassword(user.PasswordHash, req.Password)) {
		utils.Error(ctx, http.StatusUnauthorized, "invalid login details")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}

	ttl := time.Duration(config.Get().TokenTTLMin) * time.Minute
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"message": "logged in successfully",
		"token":   token,
		"role":    user.Role,
	})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, "authorization header missing")
		return
	}
	token := strings.TrimSpace(parts[1])

	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, "invalid token")
		return
	}
	utils.BlacklistToken(token, claims.ExpiresAt.Time)

	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Profile returns the current user with favorite games, follow counts and
// their most recent posts.
func (a *AuthController) Profile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.Preload("Games").First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "user not found")
		return
	}

	followers, following, err := models.FollowCounts(a.db, user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count follows")
		return
	}
	user.FollowerCount = followers
	user.FollowingCount = following

	posts, err := models.RecentPostsByUser(a.db, user.ID, 10)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load posts")
		return
	}
	if err := models.AnnotateViewerPostVotes(a.db, posts, user.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load vote state")
		return
	}
	if err := models.AnnotateViewerSaved(a.db, posts, user.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load saved state")
		return
	}

	utils.Success(ctx, gin.H{
		"user":  user,
		"posts": posts,
	})
}

// UpdateProfile accepts a multipart form with username, bio and optional
// profile_picture/banner images. Replaced images are removed from storage.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "user not found")
		return
	}

	if username := strings.TrimSpace(ctx.PostForm("username")); username != "" && username != user.Username {
		var taken int64
		if err := a.db.Model(&models.User{}).Where("username = ? AND id != ?", username, user.ID).Count(&taken).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "failed to check username")
			return
		}
		if taken > 0 {
			utils.Error(ctx, http.StatusConflict, "username already taken")
			return
		}
		user.Username = username
	}
	if bio, exists := ctx.GetPostForm("bio"); exists {
		user.Bio = utils.Sanitize(bio)
	}

	if header, err := ctx.FormFile("profile_picture"); err == nil {
		url, err := utils.SaveImage(header, "profile_pictures")
		if err != nil {
			if errors.Is(err, utils.ErrImageInvalid) {
				utils.ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", err.Error())
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, "failed to store image")
			return
		}
		utils.DeleteImage(user.ProfilePicture)
		user.ProfilePicture = url
	}
	if header, err := ctx.FormFile("banner"); err == nil {
		url, err := utils.SaveImage(header, "banners")
		if err != nil {
			if errors.Is(err, utils.ErrImageInvalid) {
				utils.ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", err.Error())
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, "failed to store image")
			return
		}
		utils.DeleteImage(user.Banner)
		user.Banner = url
	}

	if err := a.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update profile")
		return
	}

	utils.Success(ctx, gin.H{"message": "profile updated", "user": user})
}

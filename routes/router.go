package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gamehive/backend/config"
	"github.com/gamehive/backend/controllers"
	"github.com/gamehive/backend/middleware"
	"github.com/gamehive/backend/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded images (profile pictures, banners, forum and post images).
	r.Static("/storage", "./"+cfg.StorageDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	followController := controllers.NewFollowController(db)
	forumController := controllers.NewForumController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	messageController := controllers.NewMessageController(db)
	newsController := controllers.NewNewsController(db)
	adminController := controllers.NewAdminController(db)

	api := r.Group("/api")

	authGroup := api.Group("")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)

	// Public reads; a bearer token, when present, adds per-viewer annotations.
	public := api.Group("")
	public.Use(middleware.OptionalAuth())
	public.GET("/news", newsController.Index)
	public.GET("/news/:id", newsController.Show)
	public.GET("/users/:username", userController.Show)
	public.GET("/users/:username/followers", followController.Followers)
	public.GET("/users/:username/following", followController.Following)
	public.GET("/forums", forumController.Index)
	public.GET("/forums/:slug", forumController.Show)
	public.GET("/forums/:slug/posts/:postId", postController.Show)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.POST("/logout", authController.Logout)
	protected.GET("/profile", authController.Profile)
	protected.POST("/update-profile", authController.UpdateProfile)

	protected.POST("/forums", forumController.Store)
	protected.POST("/forums/:slug/posts", postController.Create)
	protected.POST("/forums/:slug/join", forumController.Join)
	protected.POST("/forums/:slug/leave", forumController.Leave)

	protected.PUT("/posts/:postId", postController.Update)
	protected.DELETE("/posts/:postId", postController.Delete)
	protected.POST("/posts/:postId/like", postController.Like)
	protected.POST("/posts/:postId/dislike", postController.Dislike)
	protected.POST("/posts/:postId/save", postController.Save)
	protected.POST("/posts/:postId/unsave", postController.Unsave)
	protected.POST("/posts/:postId/comments", commentController.Create)
	protected.GET("/saved-posts", postController.SavedPosts)
	protected.GET("/following/posts", postController.FollowingFeed)

	protected.DELETE("/comments/:commentId", commentController.Delete)
	protected.POST("/comments/:commentId/like", commentController.Like)
	protected.POST("/comments/:commentId/dislike", commentController.Dislike)

	protected.POST("/users/:username/follow", followController.Follow)
	protected.POST("/users/:username/unfollow", followController.Unfollow)
	protected.POST("/users/:username/messages", messageController.Send)
	protected.GET("/search/users", userController.Search)
	protected.GET("/conversations", messageController.Conversations)
	protected.GET("/conversations/:id/messages", messageController.Messages)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.GET("/users", adminController.Users)
	admin.GET("/stats", adminController.Stats)
	admin.DELETE("/users/:id", adminController.DeleteUser)
	admin.DELETE("/posts/:id", adminController.DeletePost)

	newsAdmin := api.Group("/news")
	newsAdmin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	newsAdmin.POST("", newsController.Store)
	newsAdmin.PUT("/:id", newsController.Update)
	newsAdmin.DELETE("/:id", newsController.Destroy)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "route not found")
	})

	return r
}

package controllers

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gamehive/backend/middleware"
	"github.com/gamehive/backend/models"
	"github.com/gamehive/backend/utils"
)

func TestMain(m *testing.M) {
	// Must be set before the first config.Get(), which token helpers trigger.
	os.Setenv("JWT_SECRET", "test-secret")
	dir, err := os.MkdirTemp("", "storage")
	if err != nil {
		panic(err)
	}
	os.Setenv("STORAGE_DIR", dir)
	gin.SetMode(gin.TestMode)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// newRouter wires the API the same way the server does, minus access logging.
func newRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()

	authController := NewAuthController(db)
	userController := NewUserController(db)
	followController := NewFollowController(db)
	forumController := NewForumController(db)
	postController := NewPostController(db)
	commentController := NewCommentController(db)
	messageController := NewMessageController(db)
	newsController := NewNewsController(db)
	adminController := NewAdminController(db)

	api := r.Group("/api")
	api.POST("/register", authController.Register)
	api.POST("/login", authController.Login)

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

	return r
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	u := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(u.ID, u.Username, u.Role, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doForm(r *gin.Engine, method, path, token, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doMultipart posts text fields plus an optional file part named "image".
func doMultipart(t *testing.T, r *gin.Engine, method, path, token string, fields map[string]string, filename string, file []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}

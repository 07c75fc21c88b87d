package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gamehive/backend/models"
	"github.com/gamehive/backend/utils"
)

// NewsController serves the admin-curated news feed. Reads are public, writes
// are admin-gated by middleware.
type NewsController struct {
	db *gorm.DB
}

// NewNewsController creates a NewsController.
func NewNewsController(db *gorm.DB) *NewsController {
	return &NewsController{db: db}
}

// Index lists articles newest first; ?limit caps the result.
func (n *NewsController) Index(ctx *gin.Context) {
	q := n.db.Preload("Author").Order("created_at DESC")
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		q = q.Limit(limit)
	}

	var articles []models.News
	if err := q.Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list news")
		return
	}
	utils.Success(ctx, articles)
}

// Show returns one article.
func (n *NewsController) Show(ctx *gin.Context) {
	article, ok := n.load(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, article)
}

type newsRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"required,max=50"`
	ImageURL string `json:"image_url" binding:"omitempty,url,max=255"`
}

// Store creates an article authored by the current admin.
func (n *NewsController) Store(ctx *gin.Context) {
	var req newsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	userID, _ := getUserID(ctx)
	article := models.News{
		AuthorID: userID,
		Title:    utils.Sanitize(strings.TrimSpace(req.Title)),
		Content:  utils.Sanitize(req.Content),
		Category: strings.TrimSpace(req.Category),
		ImageURL: req.ImageURL,
	}
	if err := n.db.Create(&article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create news article")
		return
	}
	if err := n.db.Preload("Author").First(&article, article.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load news article")
		return
	}
	utils.Created(ctx, article)
}

// Update edits an article in place.
func (n *NewsController) Update(ctx *gin.Context) {
	var req newsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	article, ok := n.load(ctx)
	if !ok {
		return
	}

	article.Title = utils.Sanitize(strings.TrimSpace(req.Title))
	article.Content = utils.Sanitize(req.Content)
	article.Category = strings.TrimSpace(req.Category)
	article.ImageURL = req.ImageURL
	if err := n.db.Save(article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update news article")
		return
	}
	utils.Success(ctx, article)
}

// Destroy deletes an article.
func (n *NewsController) Destroy(ctx *gin.Context) {
	article, ok := n.load(ctx)
	if !ok {
		return
	}
	if err := n.db.Delete(article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete news article")
		return
	}
	utils.Success(ctx, gin.H{"message": "news article deleted successfully"})
}

func (n *NewsController) load(ctx *gin.Context) (*models.News, bool) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid news id")
		return nil, false
	}
	var article models.News
	err := n.db.Preload("Author").First(&article, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, "news article not found")
		return nil, false
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load news article")
		return nil, false
	}
	return &article, true
}

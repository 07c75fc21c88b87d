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

// PostController manages posts: creation inside a forum, the detail view with
// the full comment tree, vote toggles, bookmarks and the following feed.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a PostController.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// Create adds a post to a forum, from JSON or a multipart form with an
// optional image. Tags arrive as a comma-separated string. The forum's
// post_count moves with the post row in one transaction.
func (p *PostController) Create(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title" form:"title" binding:"required,max=255"`
		Content string `json:"content" form:"content" binding:"required"`
		Tags    string `json:"tags" form:"tags"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	forumID, ok := parseUintParam(ctx, "slug")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid forum id")
		return
	}
	var forum models.Forum
	if err := p.db.First(&forum, forumID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "forum not found")
		return
	}

	userID, _ := getUserID(ctx)
	post := models.Post{
		ForumID: forum.ID,
		UserID:  userID,
		Title:   utils.Sanitize(strings.TrimSpace(req.Title)),
		Content: utils.Sanitize(req.Content),
	}
	if post.Title == "" {
		utils.ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", "title cannot be empty")
		return
	}

	if header, err := ctx.FormFile("image"); err == nil {
		url, err := utils.SaveImage(header, "post_images")
		if err != nil {
			if errors.Is(err, utils.ErrImageInvalid) {
				utils.ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", err.Error())
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, "failed to store image")
			return
		}
		post.Image = url
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for _, tag := range splitTags(req.Tags) {
			if err := tx.Create(&models.PostTag{PostID: post.ID, Tag: tag}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Forum{}).Where("id = ?", forum.ID).
			UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create post")
		return
	}

	if err := p.db.Preload("User").Preload("Tags").First(&post, post.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"message": "post created successfully", "post": post})
}

// Show returns a post with its full comment tree. With a viewer present the
// post and every comment carry that viewer's vote state.
func (p *PostController) Show(ctx *gin.Context) {
	postID, ok := parseUintParam(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid post id")
		return
	}

	var post models.Post
	err := p.db.Preload("User").Preload("Tags").Preload("Forum").First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	viewer := viewerID(ctx)
	posts := []models.Post{post}
	if err := models.AnnotateViewerPostVotes(p.db, posts, viewer); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load vote state")
		return
	}
	if err := models.AnnotateViewerSaved(p.db, posts, viewer); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load saved state")
		return
	}
	post = posts[0]

	comments, err := models.LoadCommentTree(p.db, post.ID, viewer)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comments")
		return
	}
	post.Comments = comments

	utils.Success(ctx, gin.H{"post": post})
}

// Update lets the author or an admin edit title, content, tags and the image.
func (p *PostController) Update(ctx *gin.Context) {
	var req struct {
		Title   string  `json:"title" form:"title" binding:"required,max=255"`
		Content string  `json:"content" form:"content" binding:"required"`
		Tags    *string `json:"tags" form:"tags"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.ValidationError(ctx, err)
		return
	}

	post, ok := p.loadOwnedPost(ctx, "you are not authorized to edit this post")
	if !ok {
		return
	}

	post.Title = utils.Sanitize(strings.TrimSpace(req.Title))
	post.Content = utils.Sanitize(req.Content)

	if header, err := ctx.FormFile("image"); err == nil {
		url, err := utils.SaveImage(header, "post_images")
		if err != nil {
			if errors.Is(err, utils.ErrImageInvalid) {
				utils.ErrorWithDetails(ctx, http.StatusUnprocessableEntity, "validation failed", err.Error())
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, "failed to store image")
			return
		}
		utils.DeleteImage(post.Image)
		post.Image = url
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}
		if req.Tags != nil {
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTag{}).Error; err != nil {
				return err
			}
			for _, tag := range splitTags(*req.Tags) {
				if err := tx.Create(&models.PostTag{PostID: post.ID, Tag: tag}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update post")
		return
	}

	if err := p.db.Preload("User").Preload("Tags").First(post, post.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"message": "post updated successfully", "post": post})
}

// Delete removes a post (author or admin) and keeps the forum's post_count in
// step. Votes, tags, comments and bookmarks cascade with the row.
func (p *PostController) Delete(ctx *gin.Context) {
	post, ok := p.loadOwnedPost(ctx, "you are not authorized to delete this post")
	if !ok {
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Forum{}).Where("id = ?", post.ForumID).
			UpdateColumn("post_count", gorm.Expr("post_count - 1")).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete post")
		return
	}
	utils.DeleteImage(post.Image)
	utils.Success(ctx, gin.H{"message": "post deleted successfully"})
}

// Like toggles the viewer's like on a post.
func (p *PostController) Like(ctx *gin.Context) {
	p.toggleVote(ctx, true, "post like toggled successfully")
}

// Dislike toggles the viewer's dislike on a post.
func (p *PostController) Dislike(ctx *gin.Context) {
	p.toggleVote(ctx, false, "post dislike toggled successfully")
}

func (p *PostController) toggleVote(ctx *gin.Context, isLike bool, message string) {
	postID, ok := parseUintParam(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid post id")
		return
	}
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}

	userID, _ := getUserID(ctx)
	state, err := models.TogglePostVote(p.db, post.ID, userID, isLike)
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

// Save bookmarks a post for the viewer. Already saved is not an error.
func (p *PostController) Save(ctx *gin.Context) {
	postID, ok := parseUintParam(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid post id")
		return
	}
	var post models.Post
	if err := p.db.First(&post, postID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return
	}

	userID, _ := getUserID(ctx)
	err := p.db.Create(&models.SavedPost{UserID: userID, PostID: post.ID}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		utils.Error(ctx, http.StatusInternalServerError, "failed to save post")
		return
	}
	utils.Success(ctx, gin.H{"message": "post saved successfully", "is_saved": true})
}

// Unsave removes the viewer's bookmark if present.
func (p *PostController) Unsave(ctx *gin.Context) {
	postID, ok := parseUintParam(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid post id")
		return
	}
	userID, _ := getUserID(ctx)

	if err := p.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.SavedPost{}).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to unsave post")
		return
	}
	utils.Success(ctx, gin.H{"message": "post unsaved successfully", "is_saved": false})
}

// SavedPosts lists the viewer's bookmarks, newest bookmark first.
func (p *PostController) SavedPosts(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	posts, err := models.SavedPostsFor(p.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load saved posts")
		return
	}
	utils.Success(ctx, gin.H{"posts": posts})
}

// FollowingFeed returns the paginated feed of posts from followed users.
func (p *PostController) FollowingFeed(ctx *gin.Context) {
	userID, _ := getUserID(ctx)
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	posts, total, err := models.FollowingPosts(p.db, userID, page, pageSize)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load feed")
		return
	}

	utils.Success(ctx, gin.H{
		"posts":      posts,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (p *PostController) loadOwnedPost(ctx *gin.Context, forbiddenMsg string) (*models.Post, bool) {
	postID, ok := parseUintParam(ctx, "postId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid post id")
		return nil, false
	}

	var post models.Post
	err := p.db.First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusNotFound, "post not found")
		return nil, false
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return nil, false
	}

	userID, _ := getUserID(ctx)
	if post.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, forbiddenMsg)
		return nil, false
	}
	return &post, true
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, utils.Sanitize(tag))
		}
	}
	return tags
}

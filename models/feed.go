package models

import "gorm.io/gorm"

// FollowingPosts returns the page of posts authored by users the viewer
// follows, newest first, each carrying forum, tags, author and the viewer's
// own vote/save state. The result is always bounded by the page parameters;
// an account following many users never pulls an unbounded set.
func FollowingPosts(db *gorm.DB, viewerID uint, page, pageSize int) ([]Post, int64, error) {
	followed := db.Model(&UserFollower{}).Select("user_id").Where("follower_id = ?", viewerID)

	var total int64
	if err := db.Model(&Post{}).Where("user_id IN (?)", followed).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []Post
	err := db.Where("user_id IN (?)", followed).
		Preload("User").Preload("Forum").Preload("Tags").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	if err := AnnotateViewerPostVotes(db, posts, viewerID); err != nil {
		return nil, 0, err
	}
	if err := AnnotateViewerSaved(db, posts, viewerID); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// RecentPostsByUser returns the author's most recent posts with forum, tags
// and author preloaded, capped at limit.
func RecentPostsByUser(db *gorm.DB, userID uint, limit int) ([]Post, error) {
	var posts []Post
	err := db.Where("user_id = ?", userID).
		Preload("User").Preload("Forum").Preload("Tags").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// SavedPostsFor returns the viewer's bookmarked posts, newest bookmark first.
func SavedPostsFor(db *gorm.DB, viewerID uint) ([]Post, error) {
	var posts []Post
	err := db.Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.user_id = ?", viewerID).
		Preload("User").Preload("Forum").Preload("Tags").
		Order("saved_posts.created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if err := AnnotateViewerPostVotes(db, posts, viewerID); err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].IsSaved = true
	}
	return posts, nil
}

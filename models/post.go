package models

import "time"

// Post is a user-authored content item within a forum. Likes, Dislikes and
// CommentCount are caches of the vote and comment tables; they are only
// mutated inside the same transaction as the row they reflect.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ForumID      uint      `gorm:"index;not null" json:"forum_id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Image        string    `gorm:"size:512" json:"image"`
	Likes        int       `gorm:"not null;default:0" json:"likes"`
	Dislikes     int       `gorm:"not null;default:0" json:"dislikes"`
	CommentCount int       `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Forum    *Forum    `json:"forum,omitempty"`
	Tags     []PostTag `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tags"`
	Votes    []PostVote `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments []Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`

	// Filled per viewer, never persisted.
	IsLiked    bool `gorm:"-" json:"is_liked"`
	IsDisliked bool `gorm:"-" json:"is_disliked"`
	IsSaved    bool `gorm:"-" json:"is_saved"`
}

// PostTag is a free-text label attached to a post.
type PostTag struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PostID uint   `gorm:"index;not null" json:"post_id"`
	Tag    string `gorm:"size:64;not null" json:"tag"`

	CreatedAt time.Time `json:"created_at"`
}

// PostVote records one user's like/dislike stance on a post. The composite
// unique index is the race-safety backstop for concurrent toggles.
type PostVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_votes_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_votes_post_user" json:"user_id"`
	IsLike    bool      `gorm:"not null" json:"is_like"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SavedPost bookmarks a post for a user, at most once per pair.
type SavedPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_posts_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_saved_posts_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

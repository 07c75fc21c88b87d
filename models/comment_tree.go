package models

import (
	"sort"

	"gorm.io/gorm"
)

// LoadCommentTree fetches every comment of a post in one query and assembles
// the reply tree in memory, so arbitrarily deep threads come back in a single
// response. When viewerID is non-zero each comment carries the viewer's vote
// state, resolved with one IN-scoped query over the fetched comment IDs.
func LoadCommentTree(db *gorm.DB, postID, viewerID uint) ([]Comment, error) {
	var comments []Comment
	if err := db.Preload("User").Where("post_id = ?", postID).Find(&comments).Error; err != nil {
		return nil, err
	}
	if viewerID != 0 && len(comments) > 0 {
		ids := make([]uint, 0, len(comments))
		for i := range comments {
			ids = append(ids, comments[i].ID)
		}
		var votes []CommentVote
		if err := db.Where("user_id = ? AND comment_id IN ?", viewerID, ids).Find(&votes).Error; err != nil {
			return nil, err
		}
		byComment := make(map[uint]CommentVote, len(votes))
		for _, v := range votes {
			byComment[v.CommentID] = v
		}
		for i := range comments {
			if v, ok := byComment[comments[i].ID]; ok {
				comments[i].IsLiked = v.IsLike
				comments[i].IsDisliked = !v.IsLike
			}
		}
	}
	return BuildCommentTree(comments), nil
}

// BuildCommentTree partitions a flat comment list into root comments with
// nested Replies. Each comment appears under exactly one parent; a comment
// whose parent is missing from the list is dropped rather than re-rooted.
// Roots are ordered newest first, replies within a thread oldest first.
func BuildCommentTree(comments []Comment) []Comment {
	byParent := make(map[uint][]Comment)
	roots := []Comment{}
	for _, c := range comments {
		c.Replies = []Comment{}
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}

	oldestFirst := func(list []Comment) {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].ID < list[j].ID
			}
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
	}

	var attach func(c *Comment)
	attach = func(c *Comment) {
		kids := byParent[c.ID]
		if kids == nil {
			kids = []Comment{}
		}
		oldestFirst(kids)
		for i := range kids {
			attach(&kids[i])
		}
		c.Replies = kids
	}

	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].CreatedAt.Equal(roots[j].CreatedAt) {
			return roots[i].ID > roots[j].ID
		}
		return roots[i].CreatedAt.After(roots[j].CreatedAt)
	})
	for i := range roots {
		attach(&roots[i])
	}
	return roots
}

package models

import (
	"errors"

	"gorm.io/gorm"
)

// VoteState is the outcome of a toggle as seen by the voting user.
type VoteState struct {
	Likes      int  `json:"likes"`
	Dislikes   int  `json:"dislikes"`
	IsLiked    bool `json:"is_liked"`
	IsDisliked bool `json:"is_disliked"`
}

// TogglePostVote applies one like/dislike toggle for (post, user) and returns
// the resulting state. The vote row and the post counters mutate inside one
// transaction; a lost race on the unique (post_id, user_id) insert is retried
// once as a toggle against the row the winner created.
func TogglePostVote(db *gorm.DB, postID, userID uint, isLike bool) (VoteState, error) {
	state, err := togglePostVoteOnce(db, postID, userID, isLike)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		state, err = togglePostVoteOnce(db, postID, userID, isLike)
	}
	return state, err
}

func togglePostVoteOnce(db *gorm.DB, postID, userID uint, isLike bool) (VoteState, error) {
	var state VoteState
	err := db.Transaction(func(tx *gorm.DB) error {
		var vote PostVote
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&vote).Error
		switch {
		case err == nil:
			if vote.IsLike == isLike {
				// Toggling the same direction retracts the vote.
				if err := tx.Delete(&vote).Error; err != nil {
					return err
				}
				if err := bumpPostCounter(tx, postID, isLike, -1); err != nil {
					return err
				}
			} else {
				// Switching direction: move one unit between counters.
				vote.IsLike = isLike
				if err := tx.Save(&vote).Error; err != nil {
					return err
				}
				if err := bumpPostCounter(tx, postID, !isLike, -1); err != nil {
					return err
				}
				if err := bumpPostCounter(tx, postID, isLike, +1); err != nil {
					return err
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&PostVote{PostID: postID, UserID: userID, IsLike: isLike}).Error; err != nil {
				return err
			}
			if err := bumpPostCounter(tx, postID, isLike, +1); err != nil {
				return err
			}
		default:
			return err
		}

		var post Post
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}
		state.Likes = post.Likes
		state.Dislikes = post.Dislikes

		var current PostVote
		if err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&current).Error; err == nil {
			state.IsLiked = current.IsLike
			state.IsDisliked = !current.IsLike
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	})
	return state, err
}

func bumpPostCounter(tx *gorm.DB, postID uint, likeColumn bool, delta int) error {
	column := "dislikes"
	if likeColumn {
		column = "likes"
	}
	return tx.Model(&Post{}).Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// ToggleCommentVote mirrors TogglePostVote for comments.
func ToggleCommentVote(db *gorm.DB, commentID, userID uint, isLike bool) (VoteState, error) {
	state, err := toggleCommentVoteOnce(db, commentID, userID, isLike)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		state, err = toggleCommentVoteOnce(db, commentID, userID, isLike)
	}
	return state, err
}

func toggleCommentVoteOnce(db *gorm.DB, commentID, userID uint, isLike bool) (VoteState, error) {
	var state VoteState
	err := db.Transaction(func(tx *gorm.DB) error {
		var vote CommentVote
		err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&vote).Error
		switch {
		case err == nil:
			if vote.IsLike == isLike {
				if err := tx.Delete(&vote).Error; err != nil {
					return err
				}
				if err := bumpCommentCounter(tx, commentID, isLike, -1); err != nil {
					return err
				}
			} else {
				vote.IsLike = isLike
				if err := tx.Save(&vote).Error; err != nil {
					return err
				}
				if err := bumpCommentCounter(tx, commentID, !isLike, -1); err != nil {
					return err
				}
				if err := bumpCommentCounter(tx, commentID, isLike, +1); err != nil {
					return err
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&CommentVote{CommentID: commentID, UserID: userID, IsLike: isLike}).Error; err != nil {
				return err
			}
			if err := bumpCommentCounter(tx, commentID, isLike, +1); err != nil {
				return err
			}
		default:
			return err
		}

		var comment Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			return err
		}
		state.Likes = comment.Likes
		state.Dislikes = comment.Dislikes

		var current CommentVote
		if err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&current).Error; err == nil {
			state.IsLiked = current.IsLike
			state.IsDisliked = !current.IsLike
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return nil
	})
	return state, err
}

func bumpCommentCounter(tx *gorm.DB, commentID uint, likeColumn bool, delta int) error {
	column := "dislikes"
	if likeColumn {
		column = "likes"
	}
	return tx.Model(&Comment{}).Where("id = ?", commentID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// AnnotateViewerPostVotes fills IsLiked/IsDisliked on the given posts from the
// viewer's vote rows for exactly those post IDs, in one IN-scoped query.
func AnnotateViewerPostVotes(db *gorm.DB, posts []Post, viewerID uint) error {
	if viewerID == 0 || len(posts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}
	var votes []PostVote
	if err := db.Where("user_id = ? AND post_id IN ?", viewerID, ids).Find(&votes).Error; err != nil {
		return err
	}
	byPost := make(map[uint]PostVote, len(votes))
	for _, v := range votes {
		byPost[v.PostID] = v
	}
	for i := range posts {
		if v, ok := byPost[posts[i].ID]; ok {
			posts[i].IsLiked = v.IsLike
			posts[i].IsDisliked = !v.IsLike
		}
	}
	return nil
}

// AnnotateViewerSaved fills IsSaved on the given posts for the viewer.
func AnnotateViewerSaved(db *gorm.DB, posts []Post, viewerID uint) error {
	if viewerID == 0 || len(posts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}
	var saved []SavedPost
	if err := db.Where("user_id = ? AND post_id IN ?", viewerID, ids).Find(&saved).Error; err != nil {
		return err
	}
	savedSet := make(map[uint]struct{}, len(saved))
	for _, s := range saved {
		savedSet[s.PostID] = struct{}{}
	}
	for i := range posts {
		_, posts[i].IsSaved = savedSet[posts[i].ID]
	}
	return nil
}

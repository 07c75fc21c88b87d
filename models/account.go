package models

import "gorm.io/gorm"

// DeleteUserAccount removes a user and everything hanging off the account in
// one transaction: their posts (with each forum's post_count given back and
// all attached tags, votes, comments and bookmarks removed), their comments
// and votes elsewhere (with the affected counters moved back), their follow
// edges, bookmarks and forum memberships. Direct-message history is retained;
// the user row itself is soft deleted so the account stops resolving.
func DeleteUserAccount(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := deleteAuthoredPosts(tx, userID); err != nil {
			return err
		}

		// root comments on surviving posts give back their comment_count unit
		var rootPostIDs []uint
		err := tx.Model(&Comment{}).
			Where("user_id = ? AND parent_id IS NULL", userID).
			Pluck("post_id", &rootPostIDs).Error
		if err != nil {
			return err
		}
		for _, postID := range rootPostIDs {
			if err := tx.Model(&Post{}).Where("id = ?", postID).
				UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&Comment{}).Error; err != nil {
			return err
		}

		// votes elsewhere move their counters back before the rows go
		var postVotes []PostVote
		if err := tx.Where("user_id = ?", userID).Find(&postVotes).Error; err != nil {
			return err
		}
		for _, v := range postVotes {
			if err := bumpPostCounter(tx, v.PostID, v.IsLike, -1); err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&PostVote{}).Error; err != nil {
			return err
		}

		var commentVotes []CommentVote
		if err := tx.Where("user_id = ?", userID).Find(&commentVotes).Error; err != nil {
			return err
		}
		for _, v := range commentVotes {
			if err := bumpCommentCounter(tx, v.CommentID, v.IsLike, -1); err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&CommentVote{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&SavedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR follower_id = ?", userID, userID).
			Delete(&UserFollower{}).Error; err != nil {
			return err
		}

		// active memberships give back their member_count unit
		var memberships []UserGame
		err = tx.Where("user_id = ? AND is_member = ?", userID, true).Find(&memberships).Error
		if err != nil {
			return err
		}
		for _, m := range memberships {
			if err := tx.Model(&Forum{}).Where("id = ?", m.ForumID).
				UpdateColumn("member_count", gorm.Expr("member_count - 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&UserGame{}).Error; err != nil {
			return err
		}

		return tx.Delete(&User{}, userID).Error
	})
}

func deleteAuthoredPosts(tx *gorm.DB, userID uint) error {
	var postIDs []uint
	if err := tx.Model(&Post{}).Where("user_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
		return err
	}
	if len(postIDs) == 0 {
		return nil
	}

	var perForum []struct {
		ForumID uint
		N       int
	}
	err := tx.Model(&Post{}).Select("forum_id, COUNT(*) AS n").
		Where("id IN ?", postIDs).Group("forum_id").Scan(&perForum).Error
	if err != nil {
		return err
	}
	for _, f := range perForum {
		if err := tx.Model(&Forum{}).Where("id = ?", f.ForumID).
			UpdateColumn("post_count", gorm.Expr("post_count - ?", f.N)).Error; err != nil {
			return err
		}
	}

	for _, dependent := range []interface{}{&PostTag{}, &PostVote{}, &SavedPost{}, &Comment{}} {
		if err := tx.Where("post_id IN ?", postIDs).Delete(dependent).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", postIDs).Delete(&Post{}).Error
}

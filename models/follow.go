package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// UserFollower is a directed follow edge: FollowerID follows UserID.
type UserFollower struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_followers_pair" json:"user_id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_user_followers_pair" json:"follower_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ErrSelfFollow is returned when a user attempts to follow themselves.
// The schema does not forbid the edge; the check lives here at the API layer.
var ErrSelfFollow = errors.New("cannot follow yourself")

// Follow creates the edge follower -> followed. Following an already followed
// user is a no-op, so the operation is idempotent.
func Follow(db *gorm.DB, followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	err := db.Create(&UserFollower{UserID: followedID, FollowerID: followerID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Unfollow removes the edge if present.
func Unfollow(db *gorm.DB, followerID, followedID uint) error {
	return db.Where("user_id = ? AND follower_id = ?", followedID, followerID).
		Delete(&UserFollower{}).Error
}

// IsFollowing reports whether follower currently follows followed.
func IsFollowing(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var n int64
	err := db.Model(&UserFollower{}).
		Where("user_id = ? AND follower_id = ?", followedID, followerID).
		Count(&n).Error
	return n > 0, err
}

// FollowCounts returns (followers, following) for the user.
func FollowCounts(db *gorm.DB, userID uint) (int64, int64, error) {
	var followers, following int64
	if err := db.Model(&UserFollower{}).Where("user_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&UserFollower{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

// Followers lists the users following userID.
func Followers(db *gorm.DB, userID uint) ([]User, error) {
	var users []User
	err := db.Joins("JOIN user_followers ON user_followers.follower_id = users.id").
		Where("user_followers.user_id = ?", userID).
		Find(&users).Error
	return users, err
}

// Following lists the users userID follows.
func Following(db *gorm.DB, userID uint) ([]User, error) {
	var users []User
	err := db.Joins("JOIN user_followers ON user_followers.user_id = users.id").
		Where("user_followers.follower_id = ?", userID).
		Find(&users).Error
	return users, err
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDeleteUserAccountCleansUp(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	forum := seedForum(t, db, bob, "Chess", "chess")

	// bob's post carries alice's root comment and like
	bobPost := seedPost(t, db, forum, bob, "Openings")
	seedComment(t, db, bobPost, alice, nil, "try the Caro-Kann")
	_, err := TogglePostVote(db, bobPost.ID, alice.ID, true)
	require.NoError(t, err)
	require.NoError(t, db.Model(&Post{}).Where("id = ?", bobPost.ID).
		UpdateColumn("comment_count", 1).Error)

	// alice's own post, liked by bob
	alicePost := seedPost(t, db, forum, alice, "Endgames")
	_, err = TogglePostVote(db, alicePost.ID, bob.ID, true)
	require.NoError(t, err)
	require.NoError(t, db.Model(&Forum{}).Where("id = ?", forum.ID).
		UpdateColumn("post_count", 2).Error)

	require.NoError(t, db.Create(&SavedPost{UserID: alice.ID, PostID: bobPost.ID}).Error)
	require.NoError(t, Follow(db, alice.ID, bob.ID))
	now := time.Now()
	require.NoError(t, db.Create(&UserGame{UserID: alice.ID, ForumID: forum.ID, IsMember: true, JoinedAt: &now}).Error)
	require.NoError(t, db.Model(&Forum{}).Where("id = ?", forum.ID).
		UpdateColumn("member_count", 1).Error)

	require.NoError(t, DeleteUserAccount(db, alice.ID))

	var fresh Forum
	require.NoError(t, db.First(&fresh, forum.ID).Error)
	assert.Equal(t, 1, fresh.PostCount)
	assert.Equal(t, 0, fresh.MemberCount)

	var survivor Post
	require.NoError(t, db.First(&survivor, bobPost.ID).Error)
	assert.Equal(t, 0, survivor.Likes)
	assert.Equal(t, 0, survivor.CommentCount)

	for name, count := range map[string]int64{
		"posts":     mustCount(t, db.Model(&Post{}).Where("user_id = ?", alice.ID)),
		"comments":  mustCount(t, db.Model(&Comment{}).Where("user_id = ?", alice.ID)),
		"votes":     mustCount(t, db.Model(&PostVote{}).Where("user_id = ?", alice.ID)),
		"saved":     mustCount(t, db.Model(&SavedPost{}).Where("user_id = ?", alice.ID)),
		"follows":   mustCount(t, db.Model(&UserFollower{}).Where("follower_id = ?", alice.ID)),
		"pivots":    mustCount(t, db.Model(&UserGame{}).Where("user_id = ?", alice.ID)),
		"bob votes": mustCount(t, db.Model(&PostVote{}).Where("post_id = ?", alicePost.ID)),
	} {
		assert.Zero(t, count, name)
	}

	var account User
	assert.ErrorIs(t, db.First(&account, alice.ID).Error, gorm.ErrRecordNotFound)
}

func mustCount(t *testing.T, q *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, q.Count(&n).Error)
	return n
}

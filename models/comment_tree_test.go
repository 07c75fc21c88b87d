package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(base time.Time, offset int) time.Time {
	return base.Add(time.Duration(offset) * time.Minute)
}

func TestBuildCommentTreeOrdering(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := func(id uint) *uint { return &id }

	flat := []Comment{
		{ID: 1, Content: "first root", CreatedAt: at(base, 0)},
		{ID: 2, Content: "second root", CreatedAt: at(base, 10)},
		{ID: 3, ParentID: p(1), Content: "late reply", CreatedAt: at(base, 20)},
		{ID: 4, ParentID: p(1), Content: "early reply", CreatedAt: at(base, 5)},
		{ID: 5, ParentID: p(4), Content: "nested", CreatedAt: at(base, 6)},
	}

	tree := BuildCommentTree(flat)
	require.Len(t, tree, 2)

	// roots newest first
	assert.EqualValues(t, 2, tree[0].ID)
	assert.EqualValues(t, 1, tree[1].ID)

	// replies oldest first
	replies := tree[1].Replies
	require.Len(t, replies, 2)
	assert.EqualValues(t, 4, replies[0].ID)
	assert.EqualValues(t, 3, replies[1].ID)

	// nesting carries all the way down
	require.Len(t, replies[0].Replies, 1)
	assert.EqualValues(t, 5, replies[0].Replies[0].ID)
}

func TestBuildCommentTreeEachCommentAppearsOnce(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := func(id uint) *uint { return &id }

	flat := []Comment{
		{ID: 1, CreatedAt: at(base, 0)},
		{ID: 2, ParentID: p(1), CreatedAt: at(base, 1)},
		{ID: 3, ParentID: p(2), CreatedAt: at(base, 2)},
		{ID: 4, ParentID: p(2), CreatedAt: at(base, 3)},
	}

	tree := BuildCommentTree(flat)

	seen := map[uint]int{}
	var walk func(list []Comment)
	walk = func(list []Comment) {
		for _, c := range list {
			seen[c.ID]++
			walk(c.Replies)
		}
	}
	walk(tree)

	require.Len(t, seen, 4)
	for id, n := range seen {
		assert.Equal(t, 1, n, "comment %d placed more than once", id)
	}
}

func TestBuildCommentTreeEmptyRepliesNotNil(t *testing.T) {
	tree := BuildCommentTree([]Comment{{ID: 1, CreatedAt: time.Now()}})
	require.Len(t, tree, 1)
	assert.NotNil(t, tree[0].Replies)
	assert.Empty(t, tree[0].Replies)
}

func TestLoadCommentTreeWithViewerVotes(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "author")
	viewer := seedUser(t, db, "viewer")
	forum := seedForum(t, db, author, "Chess", "chess")
	post := seedPost(t, db, forum, author, "Thread")

	root := seedComment(t, db, post, author, nil, "root")
	reply := seedComment(t, db, post, viewer, &root.ID, "reply")

	_, err := ToggleCommentVote(db, reply.ID, viewer.ID, true)
	require.NoError(t, err)

	tree, err := LoadCommentTree(db, post.ID, viewer.ID)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Replies, 1)

	got := tree[0].Replies[0]
	assert.Equal(t, "reply", got.Content)
	assert.True(t, got.IsLiked)
	assert.False(t, tree[0].IsLiked)
	assert.Equal(t, "viewer", got.User.Username)
}

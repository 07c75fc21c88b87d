package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehive/backend/models"
)

func TestForumCreateShowAndPost(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	alice := seedUser(t, db, "alice", models.RoleUser)
	token := tokenFor(t, alice)

	w := doForm(r, http.MethodPost, "/api/forums", token,
		"name=Chess&description=All+about+chess")
	mustStatus(t, w, http.StatusOK)

	var created struct {
		Forum models.Forum `json:"forum"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "chess", created.Forum.Slug)
	assert.Equal(t, "Chess", created.Forum.Name)

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/forums/%d/posts", created.Forum.ID), token, `{
		"title": "Hello",
		"content": "First post",
		"tags": "intro, greetings"
	}`)
	mustStatus(t, w, http.StatusOK)

	var posted struct {
		Post models.Post `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posted))
	assert.Equal(t, "Hello", posted.Post.Title)
	assert.Equal(t, 0, posted.Post.Likes)
	assert.Equal(t, 0, posted.Post.CommentCount)
	assert.Len(t, posted.Post.Tags, 2)

	// forum page shows the post and the bumped counter
	w = doJSON(r, http.MethodGet, "/api/forums/chess", "", "")
	mustStatus(t, w, http.StatusOK)

	var shown struct {
		Forum models.Forum  `json:"forum"`
		Posts []models.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shown))
	assert.Equal(t, 1, shown.Forum.PostCount)
	require.Len(t, shown.Posts, 1)
	assert.Equal(t, "Hello", shown.Posts[0].Title)
}

func TestForumDuplicateName(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	alice := seedUser(t, db, "alice", models.RoleUser)
	token := tokenFor(t, alice)

	w := doForm(r, http.MethodPost, "/api/forums", token, "name=Chess&description=x")
	mustStatus(t, w, http.StatusOK)

	w = doForm(r, http.MethodPost, "/api/forums", token, "name=Chess&description=y")
	mustStatus(t, w, http.StatusConflict)
}

func TestForumJoinLeaveMemberCount(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	alice := seedUser(t, db, "alice", models.RoleUser)
	token := tokenFor(t, alice)

	forum := &models.Forum{UserID: alice.ID, Name: "Chess", Slug: "chess", Description: "d"}
	require.NoError(t, db.Create(forum).Error)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/forums/%d/join", forum.ID), token, "")
	mustStatus(t, w, http.StatusOK)

	var got models.Forum
	require.NoError(t, db.First(&got, forum.ID).Error)
	assert.Equal(t, 1, got.MemberCount)

	// joining twice does not bump the counter again
	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/forums/%d/join", forum.ID), token, "")
	mustStatus(t, w, http.StatusOK)
	require.NoError(t, db.First(&got, forum.ID).Error)
	assert.Equal(t, 1, got.MemberCount)

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/api/forums/%d/leave", forum.ID), token, "")
	mustStatus(t, w, http.StatusOK)
	require.NoError(t, db.First(&got, forum.ID).Error)
	assert.Equal(t, 0, got.MemberCount)

	// the pivot row survives a leave as a plain favorite
	var pivot models.UserGame
	require.NoError(t, db.Where("user_id = ? AND forum_id = ?", alice.ID, forum.ID).First(&pivot).Error)
	assert.False(t, pivot.IsMember)
	assert.Nil(t, pivot.JoinedAt)
}

func TestForumIndexTopSort(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	alice := seedUser(t, db, "alice", models.RoleUser)

	require.NoError(t, db.Create(&models.Forum{UserID: alice.ID, Name: "Quiet", Slug: "quiet", Description: "d", MemberCount: 1}).Error)
	require.NoError(t, db.Create(&models.Forum{UserID: alice.ID, Name: "Busy", Slug: "busy", Description: "d", MemberCount: 9}).Error)

	w := doJSON(r, http.MethodGet, "/api/forums?sort=top", "", "")
	mustStatus(t, w, http.StatusOK)

	var body struct {
		Forums []models.Forum `json:"forums"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Forums, 2)
	assert.Equal(t, "Busy", body.Forums[0].Name)
}

func TestForumShowNotFound(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)

	w := doJSON(r, http.MethodGet, "/api/forums/missing", "", "")
	mustStatus(t, w, http.StatusNotFound)
}

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

func TestAdminGate(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	alice := seedUser(t, db, "alice", models.RoleUser)

	w := doJSON(r, http.MethodGet, "/api/admin/users", tokenFor(t, alice), "")
	mustStatus(t, w, http.StatusForbidden)

	w = doJSON(r, http.MethodGet, "/api/admin/users", "", "")
	mustStatus(t, w, http.StatusUnauthorized)
}

func TestAdminStats(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	admin := seedUser(t, db, "root", models.RoleAdmin)
	alice := seedUser(t, db, "alice", models.RoleUser)
	seedForumPost(t, db, alice)

	w := doJSON(r, http.MethodGet, "/api/admin/stats", tokenFor(t, admin), "")
	mustStatus(t, w, http.StatusOK)

	var stats struct {
		TotalUsers  int64 `json:"total_users"`
		TotalPosts  int64 `json:"total_posts"`
		TotalForums int64 `json:"total_forums"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.TotalPosts)
	assert.EqualValues(t, 1, stats.TotalForums)
}

func TestAdminUsersListHidesSensitiveFields(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	admin := seedUser(t, db, "root", models.RoleAdmin)

	w := doJSON(r, http.MethodGet, "/api/admin/users", tokenFor(t, admin), "")
	mustStatus(t, w, http.StatusOK)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAdminDeleteUser(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	admin := seedUser(t, db, "root", models.RoleAdmin)
	alice := seedUser(t, db, "alice", models.RoleUser)
	other := seedUser(t, db, "root2", models.RoleAdmin)

	// admin accounts are protected
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", other.ID), tokenFor(t, admin), "")
	mustStatus(t, w, http.StatusForbidden)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", alice.ID), tokenFor(t, admin), "")
	mustStatus(t, w, http.StatusOK)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "alice").Count(&n).Error)
	assert.Zero(t, n)
}

func TestAdminDeletePost(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	admin := seedUser(t, db, "root", models.RoleAdmin)
	alice := seedUser(t, db, "alice", models.RoleUser)
	post := seedForumPost(t, db, alice)
	require.NoError(t, db.Model(&models.Forum{}).Where("id = ?", post.ForumID).
		UpdateColumn("post_count", 1).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/admin/posts/%d", post.ID), tokenFor(t, admin), "")
	mustStatus(t, w, http.StatusOK)

	var forum models.Forum
	require.NoError(t, db.First(&forum, post.ForumID).Error)
	assert.Equal(t, 0, forum.PostCount)
}

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

func TestMessagingFlow(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	alice := seedUser(t, db, "alice", models.RoleUser)
	bob := seedUser(t, db, "bob", models.RoleUser)

	w := doJSON(r, http.MethodPost, "/api/users/bob/messages", tokenFor(t, alice),
		`{"content": "hi bob"}`)
	mustStatus(t, w, http.StatusOK)

	var sent struct {
		Message models.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	assert.Equal(t, "hi bob", sent.Message.Content)
	assert.Equal(t, "alice", sent.Message.User.Username)

	// bob sees one conversation with one unread message
	w = doJSON(r, http.MethodGet, "/api/conversations", tokenFor(t, bob), "")
	mustStatus(t, w, http.StatusOK)

	var summaries []models.ConversationSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	require.NotNil(t, summaries[0].OtherUser)
	assert.Equal(t, "alice", summaries[0].OtherUser.Username)
	assert.EqualValues(t, 1, summaries[0].UnreadCount)

	// opening the conversation clears the unread count
	w = doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/conversations/%d/messages", summaries[0].ID), tokenFor(t, bob), "")
	mustStatus(t, w, http.StatusOK)

	var messages []models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 1)

	w = doJSON(r, http.MethodGet, "/api/conversations", tokenFor(t, bob), "")
	mustStatus(t, w, http.StatusOK)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	assert.EqualValues(t, 0, summaries[0].UnreadCount)
}

func TestMessageSelfRejected(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	alice := seedUser(t, db, "alice", models.RoleUser)

	w := doJSON(r, http.MethodPost, "/api/users/alice/messages", tokenFor(t, alice),
		`{"content": "note to self"}`)
	mustStatus(t, w, http.StatusBadRequest)
}

func TestMessagesForbiddenForOutsiders(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	alice := seedUser(t, db, "alice", models.RoleUser)
	bob := seedUser(t, db, "bob", models.RoleUser)
	carol := seedUser(t, db, "carol", models.RoleUser)

	msg, err := models.SendMessage(db, alice.ID, bob.ID, "private")
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/conversations/%d/messages", msg.ConversationID), tokenFor(t, carol), "")
	mustStatus(t, w, http.StatusForbidden)
}

func TestMessageContentTooLong(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	alice := seedUser(t, db, "alice", models.RoleUser)
	seedUser(t, db, "bob", models.RoleUser)

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	w := doJSON(r, http.MethodPost, "/api/users/bob/messages", tokenFor(t, alice),
		fmt.Sprintf(`{"content": %q}`, string(long)))
	mustStatus(t, w, http.StatusUnprocessableEntity)
}

package utils

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "alice", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestGenerateTokenUniquePerIssue(t *testing.T) {
	first, err := GenerateToken(1, "alice", "user", time.Hour)
	require.NoError(t, err)
	second, err := GenerateToken(1, "alice", "user", time.Hour)
	require.NoError(t, err)

	// same identity in the same second still yields distinct tokens
	assert.NotEqual(t, first, second)

	// revoking one must not revoke the other
	BlacklistToken(first, time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(first))
	assert.False(t, IsTokenBlacklisted(second))
}

func TestParseExpiredToken(t *testing.T) {
	token, err := GenerateToken(1, "alice", "user", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseGarbageToken(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestSanitizeStripsScript(t *testing.T) {
	out := Sanitize(`hello <script>alert("x")</script>world`)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hello")

	// benign markup survives
	assert.Contains(t, Sanitize("<b>bold</b>"), "<b>bold</b>")
}

func TestTokenBlacklist(t *testing.T) {
	token := "blacklist-test-token"
	assert.False(t, IsTokenBlacklisted(token))

	BlacklistToken(token, time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted(token))
}

func TestTokenBlacklistExpiredEntryIgnored(t *testing.T) {
	token := "already-expired-token"
	BlacklistToken(token, time.Now().Add(-time.Minute))
	assert.False(t, IsTokenBlacklisted(token))
}

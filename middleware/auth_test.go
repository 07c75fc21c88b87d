package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamehive/backend/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func echoIdentity(ctx *gin.Context) {
	id, _ := ctx.Get(ContextUserIDKey)
	role, _ := ctx.Get(ContextRoleKey)
	ctx.JSON(http.StatusOK, gin.H{"id": id, "role": role})
}

func request(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := gin.New()
	r.GET("/x", AuthRequired(), echoIdentity)

	// missing header
	assert.Equal(t, http.StatusUnauthorized, request(r, "").Code)

	// malformed header
	assert.Equal(t, http.StatusUnauthorized, request(r, "Token abc").Code)

	// garbage token
	assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer not.a.token").Code)

	token, err := utils.GenerateToken(7, "alice", "user", time.Hour)
	require.NoError(t, err)
	w := request(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":7`)
}

func TestAuthRequiredRejectsRevokedToken(t *testing.T) {
	r := gin.New()
	r.GET("/x", AuthRequired(), echoIdentity)

	token, err := utils.GenerateToken(8, "bob", "user", time.Hour)
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer "+token).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", OptionalAuth(), echoIdentity)

	// anonymous passes through with no identity
	w := request(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":null`)

	// an invalid token degrades to anonymous rather than failing
	w = request(r, "Bearer not.a.token")
	assert.Equal(t, http.StatusOK, w.Code)

	token, err := utils.GenerateToken(9, "carol", "user", time.Hour)
	require.NoError(t, err)
	w = request(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":9`)
}

func TestAdminRequired(t *testing.T) {
	r := gin.New()
	r.GET("/x", AuthRequired(), AdminRequired(), echoIdentity)

	userToken, err := utils.GenerateToken(1, "alice", "user", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, request(r, "Bearer "+userToken).Code)

	adminToken, err := utils.GenerateToken(2, "root", "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, request(r, "Bearer "+adminToken).Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/logger"
	timeProvider "github.com/pmotterani/flexipay/internal/infrastructure/adapter/time"
)

const testSecret = "test-secret"

func newGuardedRouter(allowedIDs []int64) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	guarded := router.Group("/admin")
	guarded.Use(AdminAuth(testSecret, allowedIDs, logger.NewNoopLogger()))
	guarded.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"adminId": c.GetInt64(AdminIDKey)})
	})
	return router
}

func issueTestToken(t *testing.T, secret string, adminID int64, ttl time.Duration) string {
	t.Helper()
	token, _, err := IssueAdminToken(secret, adminID, ttl, timeProvider.NewRealTimeProvider())
	require.NoError(t, err)
	return token
}

func TestAdminAuth(t *testing.T) {
	router := newGuardedRouter([]int64{1001})

	t.Run("should accept a valid token for an allowed operator", func(t *testing.T) {
		token := issueTestToken(t, testSecret, 1001, time.Hour)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "1001")
	})

	t.Run("should reject a missing token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("should reject a malformed token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		request.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("should reject a token signed with a different secret", func(t *testing.T) {
		token := issueTestToken(t, "other-secret", 1001, time.Hour)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("should reject an operator not on the allow list", func(t *testing.T) {
		token := issueTestToken(t, testSecret, 9999, time.Hour)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		token := issueTestToken(t, testSecret, 1001, -time.Minute)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yarnlot/backend/internal/infrastructure/auth"
	"github.com/yarnlot/backend/internal/infrastructure/config"
)

func newTestTokenManager() *auth.TokenManager {
	return auth.NewTokenManager(config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-32ch",
		TokenExpiration: time.Hour,
		Issuer:          "yarnlot-backend",
	})
}

func newProtectedRouter(tokens *auth.TokenManager) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(JWTAuth(tokens, "/health"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c), "username": GetJWTUsername(c)})
	})
	return router
}

func TestJWTAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newTestTokenManager()

	t.Run("rejects request without token", func(t *testing.T) {
		router := newProtectedRouter(tokens)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed authorization header", func(t *testing.T) {
		router := newProtectedRouter(tokens)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(AuthHeaderKey, "Basic abc123")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		router := newProtectedRouter(tokens)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"garbage")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepts valid token and exposes identity", func(t *testing.T) {
		router := newProtectedRouter(tokens)

		token, _, err := tokens.Issue(9, "storekeeper")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":9`)
		assert.Contains(t, w.Body.String(), `"username":"storekeeper"`)
	})

	t.Run("skips configured paths", func(t *testing.T) {
		router := newProtectedRouter(tokens)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

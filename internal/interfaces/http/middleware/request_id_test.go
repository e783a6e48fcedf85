package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yarnlot/backend/internal/application/ledger"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("mints a fresh id when header absent", func(t *testing.T) {
		var seenInContext string
		router := gin.New()
		router.Use(RequestID())
		router.GET("/", func(c *gin.Context) {
			seenInContext = ledger.RequestIDFromContext(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		router.ServeHTTP(w, req)

		echoed := w.Header().Get(RequestIDHeader)
		require.NotEmpty(t, echoed)
		assert.Equal(t, echoed, seenInContext)
	})

	t.Run("honors caller-supplied id", func(t *testing.T) {
		var seenInContext string
		router := gin.New()
		router.Use(RequestID())
		router.GET("/", func(c *gin.Context) {
			seenInContext = ledger.RequestIDFromContext(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "caller-supplied-id")
		router.ServeHTTP(w, req)

		assert.Equal(t, "caller-supplied-id", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "caller-supplied-id", seenInContext)
	})
}

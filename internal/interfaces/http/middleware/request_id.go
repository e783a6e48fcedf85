package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yarnlot/backend/internal/application/ledger"
)

// Request ID keys
const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestID assigns each request a correlation id. A caller-supplied
// X-Request-ID is honored; otherwise a fresh UUID is minted. The id is echoed
// in the response header and threaded into the request context so the
// coordinator can stamp it onto audit entries.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := ledger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the request's correlation id, empty if unset.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// RequestIDHeader is echoed on every response so a console request can
// be matched with its log line.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request an id, honoring one the caller already
// sent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext returns the request's id, or "" outside the
// middleware.
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "requestId"

// HeaderRequestID is the request/response header carrying the request ID.
const HeaderRequestID = "X-Request-Id"

// RequestID attaches a request ID to context and response header. An
// incoming X-Request-Id is honored so upstream callers can correlate logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID middleware.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(requestIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

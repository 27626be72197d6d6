package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"cv-shortlisting-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if batchID, ok := c.Get("batchId"); ok {
			fields["batch_id"] = batchID
		}
		telemetry.Info("request.complete", fields)
	}
}

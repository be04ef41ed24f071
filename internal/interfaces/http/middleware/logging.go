package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adbeam/adbeam/internal/shared/logger"
)

// Logger emits one structured record per request. Severity follows the
// response status so request logs and error logs share a single stream.
func Logger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()

		kv := make([]any, 0, 18)
		kv = append(kv,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"body_size", c.Writer.Size(),
		)
		if reqID := c.GetHeader("X-Request-ID"); reqID != "" {
			kv = append(kv, "request_id", reqID)
		}
		if actorID := ActorID(c); actorID != "" {
			kv = append(kv, "actor_id", actorID)
		}

		switch {
		case status >= 500:
			log.Error("request", kv...)
		case status >= 400:
			log.Warn("request", kv...)
		default:
			log.Debug("request", kv...)
		}
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID, X-Overlay-Key"
	corsAllowMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
)

// CORS answers preflight requests and stamps cross-origin headers. An origin
// outside the allow list gets an empty Allow-Origin, which browsers treat as
// a denial. "*" in the list allows any origin while keeping credentials
// usable, since the concrete origin is echoed back.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		c.Header("Access-Control-Allow-Origin", resolveOrigin(origin, allowedOrigins))
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
		c.Header("Access-Control-Allow-Methods", corsAllowMethods)
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func resolveOrigin(origin string, allowed []string) string {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return origin
		}
	}
	return ""
}

package statusapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware mirrors api/src/middleware/public_middleware.go's
// CORSMiddleware: fixed allow headers plus an early return on OPTIONS.
// It reads its allowed origin from the caller instead of resolving a
// LAN host, since this surface has no paired frontend to resolve.
func CORSMiddleware(allowOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// InternalAuthMiddleware mirrors api/src/middleware/internal_middleware.go:
// a bearer token compared against the configured internal token. It
// gates the v1 job-status group so job status is only readable by
// holders of the operator token, not the public internet.
func InternalAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("Authorization")
		if got == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no authorization header provided"})
			return
		}
		if got != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization token"})
			return
		}
		c.Next()
	}
}

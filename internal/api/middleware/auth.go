package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/reeltracker/worker/internal/pkg/response"
	"github.com/reeltracker/worker/internal/pkg/security"
)

// AdminAuthMiddleware guards the seed endpoint with a bearer token
// signed against the operator-configured ADMIN_TOKEN secret. The
// admin surface is read-mostly, but the one write path (account seed)
// always carries at least this baseline auth.
func AdminAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "missing bearer token")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if _, err := security.ValidateAdminToken(secret, tokenString); err != nil {
			response.Fail(c, response.Unauthorized, "invalid or expired admin token")
			c.Abort()
			return
		}

		c.Next()
	}
}

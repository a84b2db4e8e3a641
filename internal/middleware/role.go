package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kwiens/seeds/internal/models"
)

// RequireRole rejects requests whose resolved actor lacks requiredRole.
// Must run after Identity.
func RequireRole(requiredRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if !actor.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "User not authenticated",
				"code":  models.ErrCodeSignInRequired,
			})
			return
		}

		if actor.Role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":         "Insufficient permissions",
				"code":          models.ErrCodePermissionDenied,
				"required_role": requiredRole,
			})
			return
		}

		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"library-catalog/internal/shared"
	"library-catalog/internal/shared/response"
)

// AdminMiddleware checks if user has admin role. Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(shared.ContextUserRole)
		if !ok || role != shared.RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/auth" // Role guard

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the role of the user loaded by JWTAuthMiddleware.
// The role is read from the database on each request, never from the token.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c) // Get user from context
		// Check if user exists in context
		if user == nil {
			// If not, abort with unauthorized status
			unauthorized(c, "Not authenticated")
			return
		}
		// Check if user role is admin
		if err := auth.RequireAdmin(user); err != nil {
			// If not admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}

package middleware

import (
	"context"  // Context for the user lookup
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"finance_tracker/internal/apperr" // Error messages
	"finance_tracker/internal/auth"   // Token verification
	"finance_tracker/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Context keys
const (
	userKey   = "currentUser"
	userIDKey = "userID"
)

// UserFinder loads an active user by id
type UserFinder interface {
	FindActiveByID(ctx context.Context, id uint) (*domain.User, error)
}

// JWTAuthMiddleware validates the bearer token and loads the caller's user record
func JWTAuthMiddleware(issuer *auth.TokenIssuer, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			unauthorized(c, "Not authenticated") // Missing or malformed header
			return
		}
		userID, err := issuer.Parse(strings.TrimSpace(tokenStr)) // Verify signature and expiry
		if err != nil {
			logrus.WithError(err).Debug("Rejected bearer token")
			unauthorized(c, apperr.MessageOf(err)) // Invalid, expired or malformed
			return
		}
		user, err := users.FindActiveByID(c.Request.Context(), userID) // Subject must be an active user
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Failed to load user for token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			return
		}
		if user == nil {
			unauthorized(c, apperr.MessageOf(auth.ErrTokenInvalid)) // Deleted or deactivated
			return
		}
		c.Set(userKey, user)      // Store user in context
		c.Set(userIDKey, user.ID) // Store userID in context
		c.Next()                  // Proceed to the next handler
	}
}

// CurrentUser returns the authenticated user stored by JWTAuthMiddleware
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

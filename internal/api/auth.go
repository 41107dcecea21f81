package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/auth"       // Token issuing
	"finance_tracker/internal/cache"      // Redis cache
	"finance_tracker/internal/domain"     // Importing domain models
	"finance_tracker/internal/middleware" // Current user
	"finance_tracker/internal/store"      // Persistence

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"` // Unique username
	Email    string `json:"email" binding:"required,email"`           // Unique email
	Password string `json:"password" binding:"required,min=6"`        // Plaintext, hashed before storage
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	AccessToken string       `json:"access_token"` // JWT token
	TokenType   string       `json:"token_type"`   // Always "bearer"
	ExpiresIn   int64        `json:"expires_in"`   // Token lifetime in seconds
	User        *domain.User `json:"user"`         // Authenticated user
}

// newAuthResponse wraps a freshly issued token for the client
func newAuthResponse(issuer *auth.TokenIssuer, token string, user *domain.User) AuthResponse {
	return AuthResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
		ExpiresIn:   int64(issuer.TTL().Seconds()),
		User:        user,
	}
}

// RegisterHandler creates a user account and logs it in
func RegisterHandler(users *store.UserStore, issuer *auth.TokenIssuer, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err) // Field-level details
			return
		}
		// Create the user, hashing the password
		user, err := users.Create(c.Request.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			respondError(c, err) // Duplicate username or email
			return
		}
		// Generate JWT token
		token, _, err := issuer.Issue(user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
		}).Info("User registered") // Log registration
		_ = rc.Delete(c.Request.Context(), cache.AdminStatsKey) // User counts changed
		c.JSON(http.StatusOK, newAuthResponse(issuer, token, user))
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(users *store.UserStore, issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		// Compare provided password with stored hash
		user, err := users.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			logrus.WithField("username", req.Username).Warn("Failed login attempt")
			respondError(c, err) // Invalid credentials
			return
		}
		token, _, err := issuer.Issue(user.ID) // Generate JWT token
		if err != nil {
			respondError(c, err)
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, newAuthResponse(issuer, token, user))
	}
}

// LogoutHandler acknowledges a logout. Tokens are stateless, so the client discards its copy.
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
	}
}

// MeHandler returns the authenticated user
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.CurrentUser(c))
	}
}

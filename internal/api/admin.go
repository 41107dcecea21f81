package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/cache"      // Redis cache
	"finance_tracker/internal/domain"     // Importing domain models
	"finance_tracker/internal/middleware" // Current user
	"finance_tracker/internal/store"      // Persistence

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// UserUpdateRequest is the admin user patch
type UserUpdateRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"` // New username
	Email    *string `json:"email" binding:"omitempty,email"`           // New email
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"` // New role
	IsActive *bool   `json:"is_active"`                                 // Activate or deactivate
}

// StatusUpdateRequest is the admin approval payload
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required,oneof=completed failed"` // completed approves, failed rejects
}

// ListUsersHandler returns all users, newest first
func ListUsersHandler(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// UpdateUserHandler lets an admin change a user's profile, role or active flag
func UpdateUserHandler(users *store.UserStore, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req UserUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		user, err := users.Update(c.Request.Context(), id, domain.UserPatch{
			Username: req.Username,
			Email:    req.Email,
			Role:     req.Role,
			IsActive: req.IsActive,
		})
		if err != nil {
			respondError(c, err) // Not found, duplicate or protected admin
			return
		}
		// Log the admin action
		logrus.WithFields(logrus.Fields{
			"admin_id":  middleware.CurrentUser(c).ID, // Acting admin
			"user_id":   user.ID,                      // Updated user
			"role":      user.Role,                    // Role after update
			"is_active": user.IsActive,                // Active flag after update
		}).Info("User updated")
		_ = rc.Delete(c.Request.Context(), cache.AdminStatsKey) // Counts may have changed
		c.JSON(http.StatusOK, user)
	}
}

// DeleteUserHandler removes a user with their transactions. The default admin is protected.
func DeleteUserHandler(users *store.UserStore, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := users.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"admin_id": middleware.CurrentUser(c).ID, // Acting admin
			"user_id":  id,                           // Deleted user
		}).Info("User deleted")
		_ = rc.Delete(c.Request.Context(), cache.AdminStatsKey, cache.UserStatsKey(id)) // Invalidate stats
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// AdminStatsHandler summarizes users and pending work, served from Redis when cached
func AdminStatsHandler(users *store.UserStore, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached domain.UserStats // Try to get cached response
		if found, err := rc.Get(ctx, cache.AdminStatsKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached) // Cache hit
			return
		}
		stats, err := users.Stats(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = rc.Set(ctx, cache.AdminStatsKey, stats) // Cache the response
		c.JSON(http.StatusOK, stats)
	}
}

// PendingTransactionsHandler lists pending transactions across all users
func PendingTransactionsHandler(ledger *store.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := ledger.ListPending(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// SetTransactionStatusHandler approves or rejects a pending transaction
func SetTransactionStatusHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req StatusUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		admin := middleware.CurrentUser(c)
		view, err := ledger.AdminSetStatus(c.Request.Context(), id, admin, req.Status)
		if err != nil {
			respondError(c, err) // Not found or not pending
			return
		}
		// Log the status change
		logrus.WithFields(logrus.Fields{
			"admin_id":       admin.ID,    // Acting admin
			"transaction_id": view.ID,     // Transaction ID
			"owner_id":       view.UserID, // Owner
			"status":         view.Status, // New status
		}).Info("Transaction status changed")
		invalidateLedger(c.Request.Context(), rc, view.UserID) // Owner's stats changed
		c.JSON(http.StatusOK, view)
	}
}

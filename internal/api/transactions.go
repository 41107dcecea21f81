package api

import (
	"context"  // Context for cache invalidation
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Date parsing

	"finance_tracker/internal/apperr"     // Error taxonomy
	"finance_tracker/internal/cache"      // Redis cache
	"finance_tracker/internal/domain"     // Importing domain models
	"finance_tracker/internal/middleware" // Current user
	"finance_tracker/internal/store"      // Persistence

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Accepted transaction_date layouts, tried in order
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CreateTransactionRequest is the creation payload. A client-supplied status is ignored.
type CreateTransactionRequest struct {
	Type            string  `json:"type" binding:"required,oneof=income expense transfer"` // Transaction type
	Amount          float64 `json:"amount" binding:"required,gt=0"`                        // Strictly positive
	Currency        string  `json:"currency" binding:"max=10"`                             // Defaults to USD
	CategoryID      *uint   `json:"category_id"`                                           // Optional category
	Description     *string `json:"description"`                                           // Optional description
	Recipient       *string `json:"recipient" binding:"omitempty,max=255"`                 // Optional recipient
	Sender          *string `json:"sender" binding:"omitempty,max=255"`                    // Optional sender
	TransactionDate *string `json:"transaction_date"`                                      // Defaults to now
}

// UpdateTransactionRequest is a partial update; omitted fields stay unchanged
type UpdateTransactionRequest struct {
	CategoryID      *uint    `json:"category_id"`                                                         // 0 clears the category
	Type            *string  `json:"type" binding:"omitempty,oneof=income expense transfer"`              // Transaction type
	Amount          *float64 `json:"amount" binding:"omitempty,gt=0"`                                     // Strictly positive
	Currency        *string  `json:"currency" binding:"omitempty,max=10"`                                 // Currency code
	Status          *string  `json:"status" binding:"omitempty,oneof=pending completed failed cancelled"` // Owners may only cancel
	Description     *string  `json:"description"`                                                         // Description
	Recipient       *string  `json:"recipient" binding:"omitempty,max=255"`                               // Recipient
	Sender          *string  `json:"sender" binding:"omitempty,max=255"`                                  // Sender
	TransactionDate *string  `json:"transaction_date"`                                                    // New date
}

// ListTransactionsQuery holds the listing filters
type ListTransactionsQuery struct {
	Skip       int    `form:"skip"`        // Rows to skip
	Limit      *int   `form:"limit"`       // Page size, clamped to [1, 1000]
	Type       string `form:"type"`        // Optional type filter
	Status     string `form:"status"`      // Optional status filter
	CategoryID *uint  `form:"category_id"` // Optional category filter
}

// ListTransactionsHandler returns the caller's transactions
func ListTransactionsHandler(ledger *store.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q ListTransactionsQuery // Bind query string to struct
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		views, err := ledger.List(c.Request.Context(), middleware.CurrentUser(c), domain.ListFilter{
			Type:       q.Type,       // Blank means any
			Status:     q.Status,     // Blank means any
			CategoryID: q.CategoryID, // Zero means any
			Skip:       q.Skip,       // Offset
			Limit:      q.Limit,      // Page size
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// GetTransactionHandler returns one owned transaction
func GetTransactionHandler(ledger *store.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		view, err := ledger.Get(c.Request.Context(), id, middleware.CurrentUser(c))
		if err != nil {
			respondError(c, err) // Not found or not owned
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// CreateTransactionHandler records a pending transaction for the caller
func CreateTransactionHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		date, err := parseDate(req.TransactionDate)
		if err != nil {
			respondError(c, err)
			return
		}
		user := middleware.CurrentUser(c) // Owner
		ctx := c.Request.Context()
		t, err := ledger.Create(ctx, user, domain.NewTransaction{
			Type:            req.Type,        // Transaction type
			Amount:          req.Amount,      // Amount
			Currency:        req.Currency,    // Currency code
			CategoryID:      req.CategoryID,  // Category
			Description:     req.Description, // Description
			Recipient:       req.Recipient,   // Recipient
			Sender:          req.Sender,      // Sender
			TransactionDate: date,            // Date or now
		})
		if err != nil {
			respondError(c, err)
			return
		}
		// Log the new transaction
		logrus.WithFields(logrus.Fields{
			"transaction_id": t.ID,       // Transaction ID
			"user_id":        user.ID,    // Owner
			"type":           t.Type,     // Transaction type
			"amount":         t.Amount,   // Amount
			"currency":       t.Currency, // Currency
		}).Info("Transaction created")
		invalidateLedger(ctx, rc, user.ID) // Stats now include the new row
		view, err := ledger.Get(ctx, t.ID, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// UpdateTransactionHandler applies an owner's partial update
func UpdateTransactionHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req UpdateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		date, err := parseDate(req.TransactionDate)
		if err != nil {
			respondError(c, err)
			return
		}
		user := middleware.CurrentUser(c)
		ctx := c.Request.Context()
		t, err := ledger.Update(ctx, id, user, domain.TransactionPatch{
			CategoryID:      req.CategoryID,
			Type:            req.Type,
			Amount:          req.Amount,
			Currency:        req.Currency,
			Status:          req.Status,
			Description:     req.Description,
			Recipient:       req.Recipient,
			Sender:          req.Sender,
			TransactionDate: date,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"transaction_id": t.ID,     // Transaction ID
			"user_id":        user.ID,  // Owner
			"status":         t.Status, // Status after the update
		}).Info("Transaction updated")
		invalidateLedger(ctx, rc, user.ID)
		view, err := ledger.Get(ctx, t.ID, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// DeleteTransactionHandler hard-deletes an owned transaction and its history
func DeleteTransactionHandler(ledger *store.Ledger, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		user := middleware.CurrentUser(c)
		if err := ledger.Delete(c.Request.Context(), id, user); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"transaction_id": id,      // Transaction ID
			"user_id":        user.ID, // Owner
		}).Info("Transaction deleted")
		invalidateLedger(c.Request.Context(), rc, user.ID)
		c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
	}
}

// TransactionHistoryHandler returns the audit trail of an owned transaction
func TransactionHistoryHandler(audit *store.AuditTrail) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		rows, err := audit.History(c.Request.Context(), id, middleware.CurrentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// parseDate accepts RFC 3339 and the common ISO 8601 forms without a zone (read as UTC)
func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apperr.Validation("transaction_date must be an ISO 8601 date or datetime")
}

// invalidateLedger drops cached projections that a ledger write makes stale
func invalidateLedger(ctx context.Context, rc *cache.Cache, ownerID uint) {
	if err := rc.Delete(ctx, cache.UserStatsKey(ownerID), cache.AdminStatsKey); err != nil {
		logrus.WithError(err).WithField("user_id", ownerID).Warn("Failed to invalidate cache")
	}
}

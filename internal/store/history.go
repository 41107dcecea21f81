package store

import (
	"context"
	"fmt"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/domain"

	"gorm.io/gorm"
)

// AuditTrail reads the append-only transaction history.
// Rows are written only by the ledger, inside the same database transaction
// as the change they describe, and removed only when their transaction is deleted.
type AuditTrail struct {
	db *gorm.DB
}

// NewAuditTrail creates an AuditTrail
func NewAuditTrail(db *gorm.DB) *AuditTrail {
	return &AuditTrail{db: db}
}

// History returns the audit rows of a transaction the caller owns, newest first
func (a *AuditTrail) History(ctx context.Context, transactionID uint, caller *domain.User) ([]domain.TransactionHistory, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated("Not authenticated")
	}
	db := a.db.WithContext(ctx)
	var owned int64
	if err := db.Model(&domain.Transaction{}).Where("id = ? AND user_id = ?", transactionID, caller.ID).Count(&owned).Error; err != nil {
		return nil, fmt.Errorf("check transaction owner: %w", err)
	}
	if owned == 0 {
		return nil, apperr.NotFound(msgTransactionNotFound)
	}
	var rows []domain.TransactionHistory
	if err := db.Where("transaction_id = ?", transactionID).Order("created_at desc, id desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return rows, nil
}

// appendHistory writes one audit row using the caller's database transaction
func appendHistory(tx *gorm.DB, transactionID, actorID uint, action string, oldStatus *string, newStatus string, notes string) error {
	entry := &domain.TransactionHistory{
		TransactionID: transactionID,
		UserID:        actorID,
		Action:        action,
		OldStatus:     oldStatus,
		NewStatus:     strPtr(newStatus),
		Notes:         strPtr(notes),
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

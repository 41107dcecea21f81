package store

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/auth"
	"finance_tracker/internal/domain"

	"gorm.io/gorm"
)

// Listing bounds
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
	maxCurrencyLen   = 10
)

const msgTransactionNotFound = "Transaction not found"

// Ledger stores transactions and enforces their status state machine
type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLedger creates a Ledger
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create records a new transaction for owner. The status always starts pending
// and a "created" audit row is written in the same database transaction.
func (l *Ledger) Create(ctx context.Context, owner *domain.User, in domain.NewTransaction) (*domain.Transaction, error) {
	if owner == nil {
		return nil, apperr.Unauthenticated("Not authenticated")
	}
	if !domain.ValidType(in.Type) {
		return nil, apperr.Validation("Type must be one of income, expense, transfer")
	}
	if err := validAmount(in.Amount); err != nil {
		return nil, err
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	date := l.now()
	if in.TransactionDate != nil {
		date = in.TransactionDate.UTC()
	}

	t := &domain.Transaction{
		UserID:          owner.ID,
		CategoryID:      in.CategoryID,
		Type:            in.Type,
		Amount:          in.Amount,
		Currency:        currency,
		Status:          domain.StatusPending,
		Description:     in.Description,
		Recipient:       in.Recipient,
		Sender:          in.Sender,
		TransactionDate: date,
	}
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireCategory(tx, t.CategoryID); err != nil {
			return err
		}
		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return appendHistory(tx, t.ID, owner.ID, domain.ActionCreated, nil, domain.StatusPending, "Transaction created")
	})
	if err != nil {
		return nil, wrapInternal("create transaction", err)
	}
	return t, nil
}

// Get returns a transaction owned by caller, with its category label
func (l *Ledger) Get(ctx context.Context, id uint, caller *domain.User) (*domain.TransactionView, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated("Not authenticated")
	}
	var t domain.Transaction
	err := l.db.WithContext(ctx).Preload("Category").Where("id = ? AND user_id = ?", id, caller.ID).First(&t).Error
	if isNotFound(err) {
		return nil, apperr.NotFound(msgTransactionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	view := domain.NewTransactionView(t)
	return &view, nil
}

// List returns the caller's transactions, newest transaction_date first.
// Blank filter values are ignored. An explicit limit is clamped to [1, MaxListLimit].
func (l *Ledger) List(ctx context.Context, caller *domain.User, f domain.ListFilter) ([]domain.TransactionView, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated("Not authenticated")
	}
	limit := DefaultListLimit
	if f.Limit != nil {
		limit = clamp(*f.Limit, 1, MaxListLimit)
	}
	skip := clamp(f.Skip, 0, math.MaxInt32)

	q := l.db.WithContext(ctx).Preload("Category").Where("user_id = ?", caller.ID)
	if typ := strings.TrimSpace(f.Type); typ != "" {
		q = q.Where("type = ?", typ)
	}
	if status := strings.TrimSpace(f.Status); status != "" {
		q = q.Where("status = ?", status)
	}
	if f.CategoryID != nil && *f.CategoryID != 0 {
		q = q.Where("category_id = ?", *f.CategoryID)
	}

	var rows []domain.Transaction
	if err := q.Order("transaction_date desc, created_at desc, id desc").Offset(skip).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return toViews(rows), nil
}

// Update applies an owner's partial patch. updated_at is always refreshed and an
// "updated" audit row is written even when the status does not change.
// Owners may only cancel a pending transaction; approval goes through AdminSetStatus.
func (l *Ledger) Update(ctx context.Context, id uint, caller *domain.User, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if caller == nil {
		return nil, apperr.Unauthenticated("Not authenticated")
	}
	if patch.Empty() {
		return nil, apperr.Validation("No fields to update")
	}
	updates, err := l.patchColumns(patch)
	if err != nil {
		return nil, err
	}

	var t domain.Transaction
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("id = ? AND user_id = ?", id, caller.ID).First(&t).Error; err != nil {
			if isNotFound(err) {
				return apperr.NotFound(msgTransactionNotFound)
			}
			return err
		}
		oldStatus := t.Status
		newStatus := oldStatus
		if patch.Status != nil {
			if !domain.CanOwnerTransition(oldStatus, *patch.Status) {
				if domain.IsTerminal(oldStatus) {
					return apperr.Validation(fmt.Sprintf("Transaction is already %s", oldStatus))
				}
				return apperr.Validation(fmt.Sprintf("Cannot change status from %s to %s", oldStatus, *patch.Status))
			}
			newStatus = *patch.Status
		}
		if patch.CategoryID != nil && *patch.CategoryID != 0 {
			if err := requireCategory(tx, patch.CategoryID); err != nil {
				return err
			}
		}
		if err := tx.Model(&domain.Transaction{}).Where("id = ? AND user_id = ?", id, caller.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := appendHistory(tx, id, caller.ID, domain.ActionUpdated, &oldStatus, newStatus, "Transaction updated"); err != nil {
			return err
		}
		t = domain.Transaction{}
		return tx.First(&t, id).Error
	})
	if err != nil {
		return nil, wrapInternal("update transaction", err)
	}
	return &t, nil
}

// patchColumns validates a patch and converts it to column updates
func (l *Ledger) patchColumns(p domain.TransactionPatch) (map[string]any, error) {
	updates := map[string]any{"updated_at": l.now()}
	if p.CategoryID != nil {
		if *p.CategoryID == 0 {
			updates["category_id"] = nil // zero clears the label
		} else {
			updates["category_id"] = *p.CategoryID
		}
	}
	if p.Type != nil {
		if !domain.ValidType(*p.Type) {
			return nil, apperr.Validation("Type must be one of income, expense, transfer")
		}
		updates["type"] = *p.Type
	}
	if p.Amount != nil {
		if err := validAmount(*p.Amount); err != nil {
			return nil, err
		}
		updates["amount"] = *p.Amount
	}
	if p.Currency != nil {
		currency, err := normalizeCurrency(*p.Currency)
		if err != nil {
			return nil, err
		}
		updates["currency"] = currency
	}
	if p.Status != nil {
		if !domain.ValidStatus(*p.Status) {
			return nil, apperr.Validation("Status must be one of pending, completed, failed, cancelled")
		}
		updates["status"] = *p.Status
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Recipient != nil {
		updates["recipient"] = *p.Recipient
	}
	if p.Sender != nil {
		updates["sender"] = *p.Sender
	}
	if p.TransactionDate != nil {
		updates["transaction_date"] = p.TransactionDate.UTC()
	}
	return updates, nil
}

// Delete hard-deletes an owned transaction and its audit rows
func (l *Ledger) Delete(ctx context.Context, id uint, caller *domain.User) error {
	if caller == nil {
		return apperr.Unauthenticated("Not authenticated")
	}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t domain.Transaction
		if err := tx.Select("id").Where("id = ? AND user_id = ?", id, caller.ID).First(&t).Error; err != nil {
			if isNotFound(err) {
				return apperr.NotFound(msgTransactionNotFound)
			}
			return err
		}
		if err := tx.Where("transaction_id = ?", id).Delete(&domain.TransactionHistory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, caller.ID).Delete(&domain.Transaction{}).Error
	})
	return wrapInternal("delete transaction", err)
}

// AdminSetStatus approves (completed) or rejects (failed) a pending transaction.
// Transactions that already left pending are refused.
func (l *Ledger) AdminSetStatus(ctx context.Context, id uint, admin *domain.User, newStatus string) (*domain.TransactionView, error) {
	if err := auth.RequireAdmin(admin); err != nil {
		return nil, err
	}
	if newStatus != domain.StatusCompleted && newStatus != domain.StatusFailed {
		return nil, apperr.Validation("Status must be 'completed' or 'failed'")
	}
	action := domain.ActionApproved
	if newStatus == domain.StatusFailed {
		action = domain.ActionRejected
	}

	var t domain.Transaction
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&t, id).Error; err != nil {
			if isNotFound(err) {
				return apperr.NotFound(msgTransactionNotFound)
			}
			return err
		}
		oldStatus := t.Status
		if !domain.CanAdminTransition(oldStatus, newStatus) {
			return apperr.Validation(fmt.Sprintf("Transaction is not pending (current status: %s)", oldStatus))
		}
		if err := tx.Model(&domain.Transaction{}).Where("id = ?", id).Updates(map[string]any{
			"status":     newStatus,
			"updated_at": l.now(),
		}).Error; err != nil {
			return err
		}
		notes := fmt.Sprintf("Transaction %s by admin", action)
		if err := appendHistory(tx, id, admin.ID, action, &oldStatus, newStatus, notes); err != nil {
			return err
		}
		t = domain.Transaction{}
		return tx.Preload("Category").First(&t, id).Error
	})
	if err != nil {
		return nil, wrapInternal("set transaction status", err)
	}
	view := domain.NewTransactionView(t)
	return &view, nil
}

// ListPending returns every pending transaction across users, newest first,
// with the owner's username and the category label.
func (l *Ledger) ListPending(ctx context.Context, admin *domain.User) ([]domain.TransactionView, error) {
	if err := auth.RequireAdmin(admin); err != nil {
		return nil, err
	}
	var rows []domain.Transaction
	err := l.db.WithContext(ctx).
		Preload("Category").
		Preload("User").
		Where("status = ?", domain.StatusPending).
		Order("created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return toViews(rows), nil
}

func requireCategory(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&domain.Category{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperr.Validation(msgCategoryNotFound)
	}
	return nil
}

func validAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return apperr.Validation("Amount must be greater than 0")
	}
	return nil
}

func normalizeCurrency(c string) (string, error) {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return domain.DefaultCurrency, nil
	}
	if len(c) > maxCurrencyLen {
		return "", apperr.Validation("Currency code is too long")
	}
	return c, nil
}

func toViews(rows []domain.Transaction) []domain.TransactionView {
	views := make([]domain.TransactionView, len(rows))
	for i, t := range rows {
		views[i] = domain.NewTransactionView(t)
	}
	return views
}

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"finance_tracker/internal/domain"

	"github.com/shopspring/decimal" // Exact money arithmetic
	"gorm.io/gorm"
)

// Analytics bounds
const (
	DefaultMonths       = 6
	MaxMonths           = 24
	DefaultCategoryDays = 30
	MaxCategoryDays     = 365
	DefaultDailyDays    = 7
	MaxDailyDays        = 90
	DefaultTopLimit     = 5
	MaxTopLimit         = 20
	DefaultRecentLimit  = 10
	MaxRecentLimit      = 100
)

// Analytics serves read-only, owner-scoped projections over the ledger
type Analytics struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAnalytics creates an Analytics
func NewAnalytics(db *gorm.DB) *Analytics {
	return &Analytics{db: db, now: func() time.Time { return time.Now().UTC() }}
}

type amountRow struct {
	Type            string
	Amount          float64
	TransactionDate time.Time
}

// Stats summarizes the owner's transactions. Income and expense only count completed rows.
func (a *Analytics) Stats(ctx context.Context, owner uint) (domain.Stats, error) {
	var rows []struct {
		Status string
		Type   string
		Count  int64
		Total  float64
	}
	err := a.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select("status, type, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", owner).
		Group("status, type").
		Scan(&rows).Error
	if err != nil {
		return domain.Stats{}, fmt.Errorf("stats: %w", err)
	}

	var st domain.Stats
	income, expense := decimal.Zero, decimal.Zero
	for _, r := range rows {
		st.TotalTransactions += r.Count
		switch r.Status {
		case domain.StatusPending:
			st.PendingCount += r.Count
		case domain.StatusCompleted:
			st.CompletedCount += r.Count
			switch r.Type {
			case domain.TypeIncome:
				income = income.Add(decimal.NewFromFloat(r.Total))
			case domain.TypeExpense:
				expense = expense.Add(decimal.NewFromFloat(r.Total))
			}
		case domain.StatusFailed:
			st.FailedCount += r.Count
		case domain.StatusCancelled:
			st.CancelledCount += r.Count
		}
	}
	st.TotalIncome = money(income)
	st.TotalExpense = money(expense)
	st.Balance = money(income.Sub(expense))
	return st, nil
}

// MonthlyChart returns completed income/expense per month over the last months months
func (a *Analytics) MonthlyChart(ctx context.Context, owner uint, months int) ([]domain.MonthlyPoint, error) {
	months = boundOrDefault(months, DefaultMonths, MaxMonths)
	rows, err := a.completedSince(ctx, owner, a.now().AddDate(0, -months, 0))
	if err != nil {
		return nil, err
	}
	keys, income, expense := bucket(rows, "2006-01")
	points := make([]domain.MonthlyPoint, len(keys))
	for i, k := range keys {
		points[i] = domain.MonthlyPoint{Month: k, Income: money(income[k]), Expense: money(expense[k])}
	}
	return points, nil
}

// DailyChart returns completed income/expense per day over the last days days
func (a *Analytics) DailyChart(ctx context.Context, owner uint, days int) ([]domain.DailyPoint, error) {
	days = boundOrDefault(days, DefaultDailyDays, MaxDailyDays)
	rows, err := a.completedSince(ctx, owner, a.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	keys, income, expense := bucket(rows, "2006-01-02")
	points := make([]domain.DailyPoint, len(keys))
	for i, k := range keys {
		points[i] = domain.DailyPoint{Date: k, Income: money(income[k]), Expense: money(expense[k])}
	}
	return points, nil
}

func (a *Analytics) completedSince(ctx context.Context, owner uint, since time.Time) ([]amountRow, error) {
	var rows []amountRow
	err := a.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select("type, amount, transaction_date").
		Where("user_id = ? AND status = ? AND transaction_date >= ?", owner, domain.StatusCompleted, since).
		Order("transaction_date asc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("chart rows: %w", err)
	}
	return rows, nil
}

// CategoryChart returns completed expense totals per category over the last days days, largest first
func (a *Analytics) CategoryChart(ctx context.Context, owner uint, days int) ([]domain.CategoryTotal, error) {
	days = boundOrDefault(days, DefaultCategoryDays, MaxCategoryDays)
	since := a.now().AddDate(0, 0, -days)
	rows := []domain.CategoryTotal{}
	err := a.db.WithContext(ctx).Table("transactions AS t").
		Select("c.name AS category, c.color AS color, COALESCE(SUM(t.amount), 0) AS total").
		Joins("LEFT JOIN categories c ON t.category_id = c.id").
		Where("t.user_id = ? AND t.status = ? AND t.type = ? AND t.transaction_date >= ?",
			owner, domain.StatusCompleted, domain.TypeExpense, since).
		Group("c.name, c.color").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("category chart: %w", err)
	}
	for i := range rows {
		rows[i].Total = money(decimal.NewFromFloat(rows[i].Total))
	}
	return rows, nil
}

// StatusChart counts the owner's transactions per status
func (a *Analytics) StatusChart(ctx context.Context, owner uint) ([]domain.StatusCount, error) {
	rows := []domain.StatusCount{}
	err := a.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", owner).
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("status chart: %w", err)
	}
	return rows, nil
}

// TopCategories ranks categories by completed amount, optionally for one type
func (a *Analytics) TopCategories(ctx context.Context, owner uint, limit int, typ string) ([]domain.TopCategory, error) {
	limit = boundOrDefault(limit, DefaultTopLimit, MaxTopLimit)
	q := a.db.WithContext(ctx).Table("transactions AS t").
		Select("c.name AS category, c.color AS color, c.icon AS icon, COUNT(t.id) AS transaction_count, COALESCE(SUM(t.amount), 0) AS total_amount").
		Joins("LEFT JOIN categories c ON t.category_id = c.id").
		Where("t.user_id = ? AND t.status = ?", owner, domain.StatusCompleted)
	if typ = strings.TrimSpace(typ); typ != "" {
		q = q.Where("t.type = ?", typ)
	}
	rows := []domain.TopCategory{}
	err := q.Group("c.name, c.color, c.icon").Order("total_amount DESC").Limit(limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	for i := range rows {
		rows[i].TotalAmount = money(decimal.NewFromFloat(rows[i].TotalAmount))
	}
	return rows, nil
}

// RecentActivity returns the owner's most recently created transactions
func (a *Analytics) RecentActivity(ctx context.Context, owner uint, limit int) ([]domain.TransactionView, error) {
	limit = boundOrDefault(limit, DefaultRecentLimit, MaxRecentLimit)
	var rows []domain.Transaction
	err := a.db.WithContext(ctx).Preload("Category").
		Where("user_id = ?", owner).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return toViews(rows), nil
}

// bucket sums income and expense per formatted date key; keys come back sorted
func bucket(rows []amountRow, layout string) ([]string, map[string]decimal.Decimal, map[string]decimal.Decimal) {
	income := map[string]decimal.Decimal{}
	expense := map[string]decimal.Decimal{}
	seen := map[string]bool{}
	var keys []string
	for _, r := range rows {
		k := r.TransactionDate.UTC().Format(layout)
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
		amount := decimal.NewFromFloat(r.Amount)
		switch r.Type {
		case domain.TypeIncome:
			income[k] = income[k].Add(amount)
		case domain.TypeExpense:
			expense[k] = expense[k].Add(amount)
		}
	}
	sort.Strings(keys)
	return keys, income, expense
}

// money rounds to cents
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func boundOrDefault(v, def, hi int) int {
	if v <= 0 {
		return def
	}
	return clamp(v, 1, hi)
}

package store

import (
	"context"
	"testing"
	"time"

	"finance_tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCountOnlyCompleted(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(gdb)
	analytics := NewAnalytics(gdb)
	admin := mustAdmin(t, gdb)
	alice := mustUser(t, gdb, "alice")

	tx, err := ledger.Create(ctx, alice, domain.NewTransaction{Type: domain.TypeExpense, Amount: 50, Currency: "USD"})
	require.NoError(t, err)

	st, err := analytics.Stats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.PendingCount)
	assert.Zero(t, st.TotalExpense)

	_, err = ledger.AdminSetStatus(ctx, tx.ID, admin, domain.StatusCompleted)
	require.NoError(t, err)

	st, err = analytics.Stats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{
		TotalTransactions: 1,
		TotalExpense:      50,
		Balance:           -50,
		CompletedCount:    1,
	}, st)
}

func TestStatsRoundsToCents(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(gdb)
	admin := mustAdmin(t, gdb)
	alice := mustUser(t, gdb, "alice")

	for _, amount := range []float64{0.1, 0.2} {
		tx, err := ledger.Create(ctx, alice, domain.NewTransaction{Type: domain.TypeIncome, Amount: amount})
		require.NoError(t, err)
		_, err = ledger.AdminSetStatus(ctx, tx.ID, admin, domain.StatusCompleted)
		require.NoError(t, err)
	}
	cancelled, err := ledger.Create(ctx, alice, domain.NewTransaction{Type: domain.TypeExpense, Amount: 9})
	require.NoError(t, err)
	_, err = ledger.Update(ctx, cancelled.ID, alice, domain.TransactionPatch{Status: ptr(domain.StatusCancelled)})
	require.NoError(t, err)

	st, err := NewAnalytics(gdb).Stats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.3, st.TotalIncome)
	assert.Equal(t, 0.3, st.Balance)
	assert.Equal(t, int64(1), st.CancelledCount)
	assert.Equal(t, int64(3), st.TotalTransactions)
}

func TestCharts(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(gdb)
	analytics := NewAnalytics(gdb)
	admin := mustAdmin(t, gdb)
	alice := mustUser(t, gdb, "alice")
	bob := mustUser(t, gdb, "bob")

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	longAgo := now.AddDate(-3, 0, 0)
	groceries := uint(3)

	complete := func(owner *domain.User, in domain.NewTransaction) {
		tx, err := ledger.Create(ctx, owner, in)
		require.NoError(t, err)
		_, err = ledger.AdminSetStatus(ctx, tx.ID, admin, domain.StatusCompleted)
		require.NoError(t, err)
	}
	complete(alice, domain.NewTransaction{Type: domain.TypeIncome, Amount: 1000, TransactionDate: &yesterday})
	complete(alice, domain.NewTransaction{Type: domain.TypeExpense, Amount: 40, CategoryID: &groceries, TransactionDate: &yesterday})
	complete(alice, domain.NewTransaction{Type: domain.TypeExpense, Amount: 10, TransactionDate: &now})
	complete(alice, domain.NewTransaction{Type: domain.TypeExpense, Amount: 500, TransactionDate: &longAgo})
	complete(bob, domain.NewTransaction{Type: domain.TypeExpense, Amount: 77, TransactionDate: &now})
	_, err := ledger.Create(ctx, alice, domain.NewTransaction{Type: domain.TypeExpense, Amount: 3})
	require.NoError(t, err)

	daily, err := analytics.DailyChart(ctx, alice.ID, 0)
	require.NoError(t, err)
	var dailyIncome, dailyExpense float64
	for _, p := range daily {
		dailyIncome += p.Income
		dailyExpense += p.Expense
	}
	assert.Equal(t, 1000.0, dailyIncome)
	assert.Equal(t, 50.0, dailyExpense)
	for i := 1; i < len(daily); i++ {
		assert.Less(t, daily[i-1].Date, daily[i].Date)
	}

	monthly, err := analytics.MonthlyChart(ctx, alice.ID, 100)
	require.NoError(t, err)
	var monthlyExpense float64
	for _, p := range monthly {
		monthlyExpense += p.Expense
	}
	assert.Equal(t, 50.0, monthlyExpense, "older than 24 months is outside the window")

	byCategory, err := analytics.CategoryChart(ctx, alice.ID, 30)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	require.NotNil(t, byCategory[0].Category)
	assert.Equal(t, "Groceries", *byCategory[0].Category)
	assert.Equal(t, 40.0, byCategory[0].Total)
	assert.Nil(t, byCategory[1].Category)
	assert.Equal(t, 10.0, byCategory[1].Total)

	status, err := analytics.StatusChart(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.StatusCount{
		{Status: domain.StatusCompleted, Count: 4},
		{Status: domain.StatusPending, Count: 1},
	}, status)

	top, err := analytics.TopCategories(ctx, alice.ID, 1, domain.TypeExpense)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Nil(t, top[0].Category)
	assert.Equal(t, int64(2), top[0].TransactionCount)
	assert.Equal(t, 510.0, top[0].TotalAmount)

	recent, err := analytics.RecentActivity(ctx, alice.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, domain.StatusPending, recent[0].Status)
	for _, r := range recent {
		assert.Equal(t, alice.ID, r.UserID)
	}
}

func TestBoundOrDefault(t *testing.T) {
	assert.Equal(t, 6, boundOrDefault(0, 6, 24))
	assert.Equal(t, 6, boundOrDefault(-1, 6, 24))
	assert.Equal(t, 24, boundOrDefault(99, 6, 24))
	assert.Equal(t, 3, boundOrDefault(3, 6, 24))
}

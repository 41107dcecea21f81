package store

import (
	"context"
	"testing"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	gdb := newTestDB(t) // bootstrap already seeded once
	ctx := context.Background()
	categories := NewCategoryStore(gdb)

	inserted, err := categories.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	all, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(domain.DefaultCategories()))
	assert.Len(t, all, 10)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Name, all[i].Name)
	}
}

func TestCategoryCRUD(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	categories := NewCategoryStore(gdb)

	c, err := categories.Create(ctx, domain.CategoryInput{Name: "  Rent "})
	require.NoError(t, err)
	assert.Equal(t, "Rent", c.Name)
	assert.Equal(t, domain.DefaultCategoryColor, c.Color)
	assert.Equal(t, domain.DefaultCategoryIcon, c.Icon)

	_, err = categories.Create(ctx, domain.CategoryInput{Name: "Rent"})
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	_, err = categories.Create(ctx, domain.CategoryInput{Name: " "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	updated, err := categories.Update(ctx, c.ID, domain.CategoryPatch{Color: ptr("#000000"), Description: ptr("Monthly rent")})
	require.NoError(t, err)
	assert.Equal(t, "#000000", updated.Color)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Monthly rent", *updated.Description)

	_, err = categories.Update(ctx, c.ID, domain.CategoryPatch{Name: ptr("Salary")})
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	_, err = categories.Update(ctx, 999, domain.CategoryPatch{Name: ptr("X")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = categories.Update(ctx, c.ID, domain.CategoryPatch{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, categories.Delete(ctx, c.ID))
	assert.ErrorIs(t, categories.Delete(ctx, c.ID), apperr.ErrNotFound)
	_, err = categories.Get(ctx, c.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteCategoryKeepsTransactions(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	categories := NewCategoryStore(gdb)
	ledger := NewLedger(gdb)
	alice := mustUser(t, gdb, "alice")

	c, err := categories.Create(ctx, domain.CategoryInput{Name: "Travel"})
	require.NoError(t, err)
	tx, err := ledger.Create(ctx, alice, domain.NewTransaction{Type: domain.TypeExpense, Amount: 20, CategoryID: &c.ID})
	require.NoError(t, err)
	require.NotNil(t, tx.CategoryID)

	require.NoError(t, categories.Delete(ctx, c.ID))

	got, err := ledger.Get(ctx, tx.ID, alice)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.CategoryName)
}

package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"strings"
	"testing"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestBootstrapCreatesDefaultAdmin(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	admin := mustAdmin(t, gdb)
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, admin.IsActive)
	assert.NotEqual(t, "admin123", admin.PasswordHash)

	// A second bootstrap keeps the same admin and categories
	require.NoError(t, Bootstrap(ctx, gdb, testAdmin))
	users, err := NewUserStore(gdb).List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreateUserGetsNextID(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	users := NewUserStore(gdb)

	alice, err := users.Create(ctx, "alice", "alice@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, uint(2), alice.ID)
	assert.Equal(t, domain.RoleUser, alice.Role)
	assert.NotEqual(t, "secret1", alice.PasswordHash)

	found, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, alice.ID, found.ID)

	missing, err := users.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateUserDuplicate(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	users := NewUserStore(gdb)

	_, err := users.Create(ctx, "alice", "alice@x.com", "secret1")
	require.NoError(t, err)

	_, err = users.Create(ctx, "alice", "other@x.com", "secret1")
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	_, err = users.Create(ctx, "other", "alice@x.com", "secret1")
	assert.ErrorIs(t, err, apperr.ErrDuplicate)
	assert.Equal(t, "Username or email already exists", apperr.MessageOf(err))
}

func TestCreateUserChecksTrimmedUsername(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	users := NewUserStore(gdb)

	_, err := users.Create(ctx, "  a  ", "a@x.com", "secret1")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = users.Create(ctx, strings.Repeat("x", 51), "long@x.com", "secret1")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	u, err := users.Create(ctx, "  carol ", "carol@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Username)
}

func TestAuthenticate(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	users := NewUserStore(gdb)
	alice := mustUser(t, gdb, "alice")

	got, err := users.Authenticate(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = users.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = users.Authenticate(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = users.Update(ctx, alice.ID, domain.UserPatch{IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = users.Authenticate(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	active, err := users.FindActiveByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestUpdateUser(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	users := NewUserStore(gdb)
	alice := mustUser(t, gdb, "alice")
	mustUser(t, gdb, "bob")

	updated, err := users.Update(ctx, alice.ID, domain.UserPatch{Role: ptr(domain.RoleAdmin), Email: ptr("ALICE@new.com")})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "alice@new.com", updated.Email)
	assert.Equal(t, "alice", updated.Username)

	_, err = users.Update(ctx, alice.ID, domain.UserPatch{Username: ptr("bob")})
	assert.ErrorIs(t, err, apperr.ErrDuplicate)

	_, err = users.Update(ctx, alice.ID, domain.UserPatch{Role: ptr("root")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = users.Update(ctx, alice.ID, domain.UserPatch{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = users.Update(ctx, 999, domain.UserPatch{IsActive: ptr(true)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDefaultAdminIsProtected(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	users := NewUserStore(gdb)

	err := users.Delete(ctx, domain.DefaultAdminID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = users.Update(ctx, domain.DefaultAdminID, domain.UserPatch{Role: ptr(domain.RoleUser)})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = users.Update(ctx, domain.DefaultAdminID, domain.UserPatch{IsActive: ptr(false)})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Renaming is still allowed
	updated, err := users.Update(ctx, domain.DefaultAdminID, domain.UserPatch{Username: ptr("root")})
	require.NoError(t, err)
	assert.Equal(t, "root", updated.Username)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
}

func TestDeleteUserCascades(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	users := NewUserStore(gdb)
	ledger := NewLedger(gdb)
	alice := mustUser(t, gdb, "alice")

	tx, err := ledger.Create(ctx, alice, domain.NewTransaction{Type: domain.TypeExpense, Amount: 10})
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, alice.ID))

	var n int64
	require.NoError(t, gdb.Model(&domain.Transaction{}).Where("id = ?", tx.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, gdb.Model(&domain.TransactionHistory{}).Where("transaction_id = ?", tx.ID).Count(&n).Error)
	assert.Zero(t, n)

	assert.ErrorIs(t, users.Delete(ctx, alice.ID), apperr.ErrNotFound)
}

func TestUserStats(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	alice := mustUser(t, gdb, "alice")
	mustUser(t, gdb, "bob")
	_, err := NewLedger(gdb).Create(ctx, alice, domain.NewTransaction{Type: domain.TypeIncome, Amount: 5})
	require.NoError(t, err)

	st, err := NewUserStore(gdb).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStats{
		TotalUsers:          3,
		ActiveUsers:         3,
		AdminCount:          1,
		RecentRegistrations: 3,
		PendingTransactions: 1,
	}, st)
}

// TestMySQLDuplicateEntry checks that error 1062 from MySQL surfaces as a duplicate
func TestMySQLDuplicateEntry(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'users.idx_users_username'"})
	mock.ExpectRollback()

	_, err = NewUserStore(gdb).Create(context.Background(), "alice", "alice@x.com", "secret1")
	assert.ErrorIs(t, err, apperr.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicate(&mysqldriver.MySQLError{Number: 1062}))
	assert.False(t, isDuplicate(&mysqldriver.MySQLError{Number: 1452}))
	assert.False(t, isDuplicate(driver.ErrBadConn))
	assert.False(t, isDuplicate(nil))
}

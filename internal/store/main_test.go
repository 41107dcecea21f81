package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"finance_tracker/internal/config"
	"finance_tracker/internal/db"
	"finance_tracker/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testAdmin = config.AdminConfig{Email: "admin@admin.com", Password: "admin123"}

// newTestDB opens an isolated in-memory SQLite database with the schema and
// bootstrap data in place
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Open(config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, Bootstrap(context.Background(), gdb, testAdmin))
	return gdb
}

func mustUser(t *testing.T, gdb *gorm.DB, username string) *domain.User {
	t.Helper()
	u, err := NewUserStore(gdb).Create(context.Background(), username, username+"@x.com", "secret1")
	require.NoError(t, err)
	return u
}

func mustAdmin(t *testing.T, gdb *gorm.DB) *domain.User {
	t.Helper()
	u, err := NewUserStore(gdb).FindByID(context.Background(), domain.DefaultAdminID)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func ptr[T any](v T) *T { return &v }

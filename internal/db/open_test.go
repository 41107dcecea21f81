package db

import (
	"testing"

	"finance_tracker/internal/config"
	"finance_tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	gdb, err := Open(config.DBConfig{Driver: config.DriverSQLite, SQLitePath: "file:dbpkg?mode=memory&cache=shared"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, Migrate(gdb))
	// Running twice must be harmless
	require.NoError(t, Migrate(gdb))

	for _, m := range Models() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
	assert.True(t, gdb.Migrator().HasTable("transaction_history"))
	assert.True(t, gdb.Migrator().HasIndex(&domain.User{}, "Username"))

	var fk int
	require.NoError(t, gdb.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DBConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestWithForeignKeys(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on", withForeignKeys("app.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", withForeignKeys("file:x?mode=memory"))
	assert.Equal(t, "a.db?_foreign_keys=off", withForeignKeys("a.db?_foreign_keys=off"))
}

// Package store holds the gorm-backed persistence for users, categories,
// transactions and their audit trail. Every query that touches owner-scoped
// rows carries the caller's id in its predicate.
package store

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql" // MySQL error codes
	"github.com/mattn/go-sqlite3"                // SQLite error codes
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique-constraint violation from any supported driver
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// isNotFound reports whether err means no row matched
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// lockForUpdate adds SELECT ... FOR UPDATE where the dialect supports row locks.
// SQLite serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func strPtr(s string) *string { return &s }

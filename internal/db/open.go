package db

import (
	"fmt"
	"log"
	"strings"
	"time"

	"finance_tracker/internal/config" // Custom package for configuration

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"  // MySQL driver for GORM
	"gorm.io/driver/sqlite" // SQLite driver for GORM (mattn/go-sqlite3)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,   // Map driver unique-key errors to gorm.ErrDuplicatedKey
		NowFunc:        nowUTC, // Store timestamps in UTC
		Logger: logger.New(
			log.New(logrus.StandardLogger().WriterLevel(logrus.WarnLevel), "", 0),
			logger.Config{SlowThreshold: 500 * time.Millisecond, LogLevel: logger.Warn, IgnoreRecordNotFoundError: true},
		),
	}

	switch cfg.Driver {
	case config.DriverMySQL:
		db, err := gorm.Open(mysql.Open(cfg.MySQLDSN()), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		return db, nil
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenSQLite opens a SQLite database with foreign keys enforced and a single
// connection so that writes are serialized.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{
			TranslateError: true,
			NowFunc:        nowUTC,
			Logger:         logger.Default.LogMode(logger.Silent),
		}
	}
	db, err := gorm.Open(sqlite.Open(withForeignKeys(path)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

func nowUTC() time.Time { return time.Now().UTC() }

// withForeignKeys appends the mattn/go-sqlite3 foreign key flag to a DSN
func withForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

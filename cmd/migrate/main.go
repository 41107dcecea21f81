package main

import (
	"context" // Context for bootstrap queries

	"finance_tracker/internal/config" // Custom import path (Config)
	"finance_tracker/internal/db"     // Custom import path (Database)
	"finance_tracker/internal/store"  // Default admin and categories

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg.DB)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}
	// Seeding is idempotent, so the migrate command can be re-run safely
	if err := store.Bootstrap(context.Background(), gdb, cfg.Admin); err != nil {
		logrus.Fatalf("failed to bootstrap DB: %v", err)
	}
}

package store

import (
	"context"

	"finance_tracker/internal/config"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Bootstrap creates the default admin and seeds the default categories.
// Running it against an initialized database changes nothing.
func Bootstrap(ctx context.Context, db *gorm.DB, admin config.AdminConfig) error {
	created, err := NewUserStore(db).EnsureDefaultAdmin(ctx, admin.Email, admin.Password)
	if err != nil {
		return err
	}
	if created {
		logrus.WithField("email", admin.Email).Info("Default admin created")
	}

	seeded, err := NewCategoryStore(db).SeedDefaults(ctx)
	if err != nil {
		return err
	}
	if seeded > 0 {
		logrus.WithField("count", seeded).Info("Default categories seeded")
	}
	return nil
}

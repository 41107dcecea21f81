package store

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/auth"
	"finance_tracker/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	msgUserExists       = "Username or email already exists"
	msgUserNotFound     = "User not found"
	msgInvalidCreds     = "Invalid credentials"
	defaultAdminName    = "admin"
	recentRegistrations = 7 * 24 * time.Hour
)

// UserStore is the credential store
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a user with the "user" role. The password is always hashed.
func (s *UserStore) Create(ctx context.Context, username, email, password string) (*domain.User, error) {
	name, err := validUsername(username)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Username:     name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperr.Duplicate(msgUserExists)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// FindByUsername returns the user or nil when absent
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findOne(ctx, "username = ?", username)
}

// FindByID returns the user or nil when absent
func (s *UserStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.findOne(ctx, "id = ?", id)
}

// FindActiveByID returns the user only if the account is active
func (s *UserStore) FindActiveByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.findOne(ctx, "id = ? AND is_active = ?", id, true)
}

func (s *UserStore) findOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Authenticate verifies a username/password pair against an active account
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ? AND is_active = ?", strings.TrimSpace(username), true).First(&user).Error
	if isNotFound(err) {
		auth.BurnPasswordCheck(password)
		return nil, apperr.Unauthenticated(msgInvalidCreds)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Unauthenticated(msgInvalidCreds)
	}
	return &user, nil
}

// List returns every user, newest first
func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("created_at desc, id desc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update applies an admin patch to a user
func (s *UserStore) Update(ctx context.Context, id uint, patch domain.UserPatch) (*domain.User, error) {
	if patch.Empty() {
		return nil, apperr.Validation("No fields to update")
	}
	updates := map[string]any{}
	if patch.Username != nil {
		name, err := validUsername(*patch.Username)
		if err != nil {
			return nil, err
		}
		updates["username"] = name
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email == "" {
			return nil, apperr.Validation("Email must not be empty")
		}
		updates["email"] = email
	}
	if patch.Role != nil {
		if !domain.ValidRole(*patch.Role) {
			return nil, apperr.Validation("Role must be 'user' or 'admin'")
		}
		updates["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if id == domain.DefaultAdminID {
		if (patch.Role != nil && *patch.Role != domain.RoleAdmin) || (patch.IsActive != nil && !*patch.IsActive) {
			return nil, apperr.Forbidden("Cannot demote or deactivate default admin")
		}
	}

	var user domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&user, id).Error; err != nil {
			if isNotFound(err) {
				return apperr.NotFound(msgUserNotFound)
			}
			return err
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			if isDuplicate(err) {
				return apperr.Duplicate(msgUserExists)
			}
			return err
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, wrapInternal("update user", err)
	}
	return &user, nil
}

// Delete removes a user together with their transactions and audit rows.
// The default admin can never be deleted.
func (s *UserStore) Delete(ctx context.Context, id uint) error {
	if id == domain.DefaultAdminID {
		return apperr.Forbidden("Cannot delete default admin")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Select("id").First(&user, id).Error; err != nil {
			if isNotFound(err) {
				return apperr.NotFound(msgUserNotFound)
			}
			return err
		}
		owned := tx.Model(&domain.Transaction{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("user_id = ? OR transaction_id IN (?)", id, owned).Delete(&domain.TransactionHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, id).Error
	})
	return wrapInternal("delete user", err)
}

// EnsureDefaultAdmin creates the id=1 admin account if it does not exist yet
func (s *UserStore) EnsureDefaultAdmin(ctx context.Context, email, password string) (bool, error) {
	existing, err := s.FindByID(ctx, domain.DefaultAdminID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &domain.User{
		ID:           domain.DefaultAdminID,
		Username:     defaultAdminName,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(admin)
	if res.Error != nil {
		return false, fmt.Errorf("create default admin: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Stats summarizes accounts for the admin dashboard
func (s *UserStore) Stats(ctx context.Context) (domain.UserStats, error) {
	var st domain.UserStats
	db := s.db.WithContext(ctx)
	users := func() *gorm.DB { return db.Model(&domain.User{}) }
	if err := users().Count(&st.TotalUsers).Error; err != nil {
		return st, fmt.Errorf("count users: %w", err)
	}
	if err := users().Where("is_active = ?", true).Count(&st.ActiveUsers).Error; err != nil {
		return st, fmt.Errorf("count active users: %w", err)
	}
	if err := users().Where("role = ?", domain.RoleAdmin).Count(&st.AdminCount).Error; err != nil {
		return st, fmt.Errorf("count admins: %w", err)
	}
	since := time.Now().UTC().Add(-recentRegistrations)
	if err := users().Where("created_at >= ?", since).Count(&st.RecentRegistrations).Error; err != nil {
		return st, fmt.Errorf("count registrations: %w", err)
	}
	if err := db.Model(&domain.Transaction{}).Where("status = ?", domain.StatusPending).Count(&st.PendingTransactions).Error; err != nil {
		return st, fmt.Errorf("count pending: %w", err)
	}
	return st, nil
}

// validUsername trims the name and checks its length afterwards
func validUsername(username string) (string, error) {
	name := strings.TrimSpace(username)
	if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
		return "", apperr.Validation("Username must be 3-50 characters")
	}
	return name, nil
}

// wrapInternal passes kinded errors through and wraps everything else
func wrapInternal(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

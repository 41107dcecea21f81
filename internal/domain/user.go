package domain

import "time"

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultAdminID is reserved for the bootstrap admin and cannot be deleted
const DefaultAdminID uint = 1

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                         // Primary key
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"` // Unique username
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`   // Unique email
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`       // Bcrypt hash, never serialized
	Role         string    `gorm:"size:10;not null;default:user" json:"role"`    // Role: user or admin
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`       // Inactive users cannot authenticate
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`       // Registration time
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// UserPatch carries the admin-editable user fields; nil means unchanged
type UserPatch struct {
	Username *string
	Email    *string
	Role     *string
	IsActive *bool
}

// Empty reports whether the patch changes nothing
func (p UserPatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Role == nil && p.IsActive == nil
}

// UserStats summarizes the user base for the admin dashboard
type UserStats struct {
	TotalUsers          int64 `json:"total_users"`
	ActiveUsers         int64 `json:"active_users"`
	AdminCount          int64 `json:"admin_count"`
	RecentRegistrations int64 `json:"recent_registrations"`
	PendingTransactions int64 `json:"pending_transactions"`
}

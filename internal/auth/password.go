package auth

import (
	"finance_tracker/internal/apperr"
	"finance_tracker/internal/domain"

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// dummyHash is compared against when a user does not exist so that unknown
// usernames take roughly as long to reject as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// HashPassword returns the bcrypt hash of a plaintext password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password with a stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnPasswordCheck spends the same work as a real comparison
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// RequireAdmin fails with Forbidden unless the user holds the admin role
func RequireAdmin(user *domain.User) error {
	if !user.IsAdmin() {
		return apperr.Forbidden("Admin access required")
	}
	return nil
}

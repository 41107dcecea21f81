package auth

import (
	"errors"
	"strconv" // Subject <-> user id conversion
	"time"    // Time for token expiration

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/config"

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenType is reported to clients alongside the access token
const TokenType = "bearer"

// Token failure reasons, all surfaced as Unauthenticated
var (
	ErrTokenInvalid   = apperr.Unauthenticated("Could not validate credentials")
	ErrTokenExpired   = apperr.Unauthenticated("Token has expired")
	ErrTokenMalformed = apperr.Unauthenticated("Token subject is malformed")
)

// TokenIssuer mints and verifies HS256 bearer tokens.
// It holds no server-side session state, so logout is a client-side no-op.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer from the startup configuration
func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL, now: time.Now}
}

// TTL returns the lifetime of issued tokens
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Issue creates a signed token whose subject is the user id
func (i *TokenIssuer) Issue(userID uint) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10), // JWT subjects are strings
		ExpiresAt: jwt.NewNumericDate(expiresAt),          // Token expiry
		IssuedAt:  jwt.NewNumericDate(now),                // Issued at current time
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString(i.secret)                // Sign the token with the secret
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies a token string and returns the user id in its subject
func (i *TokenIssuer) Parse(tokenStr string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return i.secret, nil // Return the secret key for validation
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, apperr.Wrap(apperr.KindUnauthenticated, ErrTokenInvalid.Message, err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrTokenMalformed
	}
	return uint(id), nil
}

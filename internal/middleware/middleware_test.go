package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance_tracker/internal/auth"
	"finance_tracker/internal/config"
	"finance_tracker/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[uint]*domain.User

func (f fakeUsers) FindActiveByID(_ context.Context, id uint) (*domain.User, error) {
	u, ok := f[id]
	if !ok || !u.IsActive {
		return nil, nil
	}
	return u, nil
}

func newRouter(issuer *auth.TokenIssuer, users UserFinder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	protected := r.Group("/", JWTAuthMiddleware(issuer, users))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": CurrentUser(c).Username})
	})
	protected.GET("/admin", AdminOnlyMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer(config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
	users := fakeUsers{
		1: {ID: 1, Username: "admin", Role: domain.RoleAdmin, IsActive: true},
		2: {ID: 2, Username: "alice", Role: domain.RoleUser, IsActive: true},
		3: {ID: 3, Username: "carol", Role: domain.RoleUser, IsActive: false},
	}
	r := newRouter(issuer, users)

	aliceToken, _, err := issuer.Issue(2)
	require.NoError(t, err)
	adminToken, _, err := issuer.Issue(1)
	require.NoError(t, err)
	carolToken, _, err := issuer.Issue(3)
	require.NoError(t, err)
	ghostToken, _, err := issuer.Issue(42)
	require.NoError(t, err)

	w := do(r, "/me", aliceToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"alice"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	for name, token := range map[string]string{
		"missing":  "",
		"garbage":  "not-a-jwt",
		"inactive": carolToken,
		"unknown":  ghostToken,
	} {
		w := do(r, "/me", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"), name)
		assert.Contains(t, w.Body.String(), `"detail"`, name)
	}

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", aliceToken).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", adminToken).Code)
}

func TestJWTAuthMiddlewareWrongScheme(t *testing.T) {
	issuer := auth.NewTokenIssuer(config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
	r := newRouter(issuer, fakeUsers{})
	token, _, err := issuer.Issue(2)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

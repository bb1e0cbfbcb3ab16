package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frscdev/offence-register/internal/auth"
	"github.com/frscdev/offence-register/internal/models"
	"github.com/frscdev/offence-register/internal/store"
)

type stubSessionStore struct {
	identity *models.Identity
}

func (s *stubSessionStore) LoadSession(ctx context.Context) (*models.Identity, error) {
	if s.identity == nil {
		return nil, store.ErrNotFound
	}
	return s.identity, nil
}

func (s *stubSessionStore) SaveSession(ctx context.Context, identity models.Identity) error {
	s.identity = &identity
	return nil
}

func (s *stubSessionStore) ClearSession(ctx context.Context) error {
	s.identity = nil
	return nil
}

func newTestMiddleware(t *testing.T) (*AuthMiddleware, *auth.Service) {
	t.Helper()
	service, err := auth.NewService(&stubSessionStore{})
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}
	return NewAuthMiddleware(service), service
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	m, service := newTestMiddleware(t)
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "admin@frsc.gov.ng", claims.Email)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		token, err := service.GenerateToken(&models.Identity{Email: "admin@frsc.gov.ng", Role: models.RoleAdmin})
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/offences", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/offences", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/offences", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("login path skips auth", func(t *testing.T) {
		skipped := m.Authenticate(okHandler())
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		rec := httptest.NewRecorder()
		skipped.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	m, _ := newTestMiddleware(t)
	handler := m.RequireRole(models.RoleAdmin)(okHandler())

	withClaims := func(claims *models.Claims) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/offences", nil)
		return req.WithContext(context.WithValue(req.Context(), UserContextKey, claims))
	}

	t.Run("admin passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withClaims(&models.Claims{Email: "admin@frsc.gov.ng", Role: models.RoleAdmin}))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withClaims(&models.Claims{Email: "LAG-123-AB", Role: models.RoleUser}))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes user-role checks", func(t *testing.T) {
		userHandler := m.RequireRole(models.RoleUser)(okHandler())
		rec := httptest.NewRecorder()
		userHandler.ServeHTTP(rec, withClaims(&models.Claims{Email: "admin@frsc.gov.ng", Role: models.RoleAdmin}))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/offences", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	m := NewRateLimitMiddleware()
	handler := m.RateLimit(2, 60)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client is unaffected
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

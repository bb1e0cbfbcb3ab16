package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/frscdev/offence-register/internal/models"
	"github.com/frscdev/offence-register/internal/store"
)

// fakeSessionStore keeps the session slot in memory.
type fakeSessionStore struct {
	identity *models.Identity
}

func (f *fakeSessionStore) LoadSession(ctx context.Context) (*models.Identity, error) {
	if f.identity == nil {
		return nil, store.ErrNotFound
	}
	copied := *f.identity
	return &copied, nil
}

func (f *fakeSessionStore) SaveSession(ctx context.Context, identity models.Identity) error {
	f.identity = &identity
	return nil
}

func (f *fakeSessionStore) ClearSession(ctx context.Context) error {
	f.identity = nil
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeSessionStore) {
	t.Helper()
	sessions := &fakeSessionStore{}
	service, err := NewService(sessions)
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}
	return service, sessions
}

func TestLoginAdmin(t *testing.T) {
	service, sessions := newTestService(t)
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		identity, err := service.LoginAdmin(ctx, "admin@frsc.gov.ng", "12345")
		assert.NoError(t, err)
		assert.Equal(t, "admin@frsc.gov.ng", identity.Email)
		assert.Equal(t, models.RoleAdmin, identity.Role)

		// Session persisted
		assert.NotNil(t, sessions.identity)
		assert.Equal(t, models.RoleAdmin, sessions.identity.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.LoginAdmin(ctx, "admin@frsc.gov.ng", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong email", func(t *testing.T) {
		_, err := service.LoginAdmin(ctx, "someone@else.com", "12345")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLoginVehicle(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	t.Run("normalizes vehicle number", func(t *testing.T) {
		identity, err := service.LoginVehicle(ctx, "  lag-123-ab ")
		assert.NoError(t, err)
		assert.Equal(t, "LAG-123-AB", identity.Email)
		assert.Equal(t, models.RoleUser, identity.Role)
	})

	t.Run("empty vehicle number", func(t *testing.T) {
		_, err := service.LoginVehicle(ctx, "   ")
		assert.ErrorIs(t, err, ErrVehicleRequired)
	})
}

func TestCurrentIdentityAndLogout(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	// Nobody logged in yet
	identity, err := service.CurrentIdentity(ctx)
	assert.NoError(t, err)
	assert.Nil(t, identity)

	_, err = service.LoginVehicle(ctx, "NAS-456-CD")
	assert.NoError(t, err)

	identity, err = service.CurrentIdentity(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "NAS-456-CD", identity.Email)

	assert.NoError(t, service.Logout(ctx))
	identity, err = service.CurrentIdentity(ctx)
	assert.NoError(t, err)
	assert.Nil(t, identity)

	// Logging out twice is a no-op
	assert.NoError(t, service.Logout(ctx))
}

func TestGenerateAndValidateToken(t *testing.T) {
	service, _ := newTestService(t)

	identity := &models.Identity{Email: "admin@frsc.gov.ng", Role: models.RoleAdmin}
	token, err := service.GenerateToken(identity)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "admin@frsc.gov.ng", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Greater(t, claims.Exp, time.Now().Unix())
}

func TestValidateToken_StripsBearerPrefix(t *testing.T) {
	service, _ := newTestService(t)

	token, err := service.GenerateToken(&models.Identity{Email: "LAG-123-AB", Role: models.RoleUser})
	assert.NoError(t, err)

	claims, err := service.ValidateToken("Bearer " + token)
	assert.NoError(t, err)
	assert.Equal(t, "LAG-123-AB", claims.Email)
}

func TestValidateToken_Invalid(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	service, _ := newTestService(t)

	token, err := service.ExtractTokenFromHeader("Bearer abc123")
	assert.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = service.ExtractTokenFromHeader("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ExtractTokenFromHeader("Basic abc123")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ExtractTokenFromHeader("Bearer ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

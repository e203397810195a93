package service

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/bloom/internal/config"
	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/service/auth"
	"github.com/phrazzld/bloom/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(t *testing.T, users *fakeUserStore) (UserService, auth.JWTService) {
	t.Helper()
	tokens, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "test-secret-that-is-long-enough-for-testing",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	l, _ := logger.NewTestLogger()
	return NewUserService(users, tokens, auth.NewBcryptHasher(4), 5, l), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc, tokens := newTestUserService(t, users)
	ctx := context.Background()

	resp, err := svc.Register(ctx, "Ada", "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Ada", resp.User.Name)
	assert.Equal(t, 5, resp.User.Energy)
	assert.Equal(t, domain.ProviderEmail, resp.User.Provider)
	assert.Empty(t, resp.User.Password)

	claims, err := tokens.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	stored, err := users.GetByID(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.HashedPassword)

	login, err := svc.Login(ctx, "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterErrors(t *testing.T) {
	t.Parallel()

	svc, _ := newTestUserService(t, newFakeUserStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "short")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)

	_, err = svc.Register(ctx, "", "ada@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = svc.Register(ctx, "Ada", "ada@example.com", "password123")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Ada Again", "ada@example.com", "password123")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestSocialLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates apple account with relay defaults", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestUserService(t, newFakeUserStore())

		resp, err := svc.SocialLogin(ctx, SocialIdentity{Provider: "apple", ProviderUserID: "001.abc"})
		require.NoError(t, err)
		assert.Equal(t, "001.abc@privaterelay.appleid.com", resp.User.Email)
		assert.Equal(t, "Bloom User", resp.User.Name)
		assert.Equal(t, "apple", resp.User.Provider)

		again, err := svc.SocialLogin(ctx, SocialIdentity{Provider: "apple", ProviderUserID: "001.abc"})
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, again.User.ID)
	})

	t.Run("reuses account with matching email", func(t *testing.T) {
		t.Parallel()
		users := newFakeUserStore()
		svc, _ := newTestUserService(t, users)

		registered, err := svc.Register(ctx, "Ada", "ada@example.com", "password123")
		require.NoError(t, err)

		resp, err := svc.SocialLogin(ctx, SocialIdentity{
			Provider: "google", ProviderUserID: "g-1", Email: "ada@example.com", Name: "Ada L",
		})
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, resp.User.ID)
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestUserService(t, newFakeUserStore())
		_, err := svc.SocialLogin(ctx, SocialIdentity{Provider: "myspace", ProviderUserID: "x"})
		assert.ErrorIs(t, err, ErrInvalidProvider)
	})

	t.Run("requires provider user id", func(t *testing.T) {
		t.Parallel()
		svc, _ := newTestUserService(t, newFakeUserStore())
		_, err := svc.SocialLogin(ctx, SocialIdentity{Provider: "google"})
		assert.ErrorIs(t, err, domain.ErrEmptyProviderUserID)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		users := newFakeUserStore()
		users.err = errors.New("connection refused")
		svc, _ := newTestUserService(t, users)
		_, err := svc.SocialLogin(ctx, SocialIdentity{Provider: "google", ProviderUserID: "g-1"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestProfile(t *testing.T) {
	t.Parallel()

	svc, _ := newTestUserService(t, newFakeUserStore())
	ctx := context.Background()

	resp, err := svc.Register(ctx, "Ada", "ada@example.com", "password123")
	require.NoError(t, err)

	user, err := svc.Profile(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)

	_, err = svc.Profile(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

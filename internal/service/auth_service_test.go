package service

import (
	"context"
	"testing"
	"time"

	"github.com/edugen/studio/internal/config"
	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService() *AuthService {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	return NewAuthService(cfg, repository.NewUserRepository())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, model.RegisterRequest{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.RegisterRequest{Email: "ANA@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	got, err := svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "ana@example.com", Password: "wrong!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newAuthService()

	token, err := svc.GenerateToken(model.User{ID: 7, Email: "ana@example.com"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)

	other := newAuthService()
	other.cfg.JWTSecret = "another-secret"
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	_, err = svc.ValidateToken("garbage")
	assert.Error(t, err)
}

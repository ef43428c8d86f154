package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

func newIdentityForTest(t *testing.T) (*IdentityService, *CompanionService) {
	t.Helper()
	companionSvc := NewCompanionService(newMemStore(), nil, nil, nil, "", nil, "")
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return NewIdentityService(companionSvc, jwt, nil, nil), companionSvc
}

func TestIdentityRegisterIssuesTokenPair(t *testing.T) {
	svc, _ := newIdentityForTest(t)
	ctx := context.Background()

	u, pair, err := svc.Register(ctx, "luna@example.com", "hunter2secret", "Luna")
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.Equal(t, WelcomeBonus, u.CuddleCoins)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.AccessTokenExpiry.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiry.After(pair.AccessTokenExpiry))

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.NotEmpty(t, claims.SessionID)
}

func TestIdentityLoginUnknownEmailGetsDemoProfile(t *testing.T) {
	svc, _ := newIdentityForTest(t)
	ctx := context.Background()

	u, pair, err := svc.Login(ctx, "stranger@example.com", "whatever")
	require.NoError(t, err)

	assert.Equal(t, 11247, u.CuddleCoins)
	assert.Len(t, u.Pets, 2)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestIdentityRefreshRotatesSession(t *testing.T) {
	svc, _ := newIdentityForTest(t)
	ctx := context.Background()

	u, pair, err := svc.Register(ctx, "rota@example.com", "hunter2secret", "Rota")
	require.NoError(t, err)

	first, err := svc.JWT.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	next, uid, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)

	second, err := svc.JWT.ParseRefreshToken(next.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, second.UserID)
	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestIdentityRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newIdentityForTest(t)

	_, _, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

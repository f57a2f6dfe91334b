package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/share2teach-api/internal/models"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
)

func TestTokenServiceIssueAndRevalidate(t *testing.T) {
	users := newFakeUserRepo()
	user := users.add(models.User{Email: "ada@example.com", Role: models.RoleEducator, TokenVersion: 2})
	svc := NewTokenService(users, TokenConfig{Secret: "secret", Expiry: time.Hour})

	raw, err := svc.Issue(user)
	require.NoError(t, err)

	claims, err := svc.Revalidate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, 2, claims.TokenVersion)
	assert.Equal(t, models.RoleEducator, claims.Role)
}

func TestTokenServiceRejectsRevokedToken(t *testing.T) {
	users := newFakeUserRepo()
	user := users.add(models.User{Email: "ada@example.com", Role: models.RoleEducator})
	svc := NewTokenService(users, TokenConfig{Secret: "secret"})

	raw, err := svc.Issue(user)
	require.NoError(t, err)
	require.NoError(t, users.IncrementTokenVersion(context.Background(), user.ID))

	_, err = svc.Revalidate(context.Background(), raw)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
	assert.Equal(t, "Token is invalid due to version mismatch", appErrors.FromError(err).Message)
}

func TestTokenServiceRefreshesRoleFromStore(t *testing.T) {
	users := newFakeUserRepo()
	user := users.add(models.User{Email: "mod@example.com", Role: models.RoleModerator})
	svc := NewTokenService(users, TokenConfig{Secret: "secret"})

	raw, err := svc.Issue(user)
	require.NoError(t, err)
	_, err = users.UpdateRole(context.Background(), user.ID, models.RoleOpenAccess)
	require.NoError(t, err)

	claims, err := svc.Revalidate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOpenAccess, claims.Role)
}

func TestTokenServiceRejectsExpiredAndForeignTokens(t *testing.T) {
	users := newFakeUserRepo()
	user := users.add(models.User{Email: "ada@example.com", Role: models.RoleAdmin})
	svc := NewTokenService(users, TokenConfig{Secret: "secret", Expiry: time.Minute})

	past := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return past }
	expired, err := svc.Issue(user)
	require.NoError(t, err)
	svc.now = time.Now

	_, err = svc.Revalidate(context.Background(), expired)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	other := NewTokenService(users, TokenConfig{Secret: "other"})
	forged, err := other.Issue(user)
	require.NoError(t, err)
	_, err = svc.Revalidate(context.Background(), forged)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &models.JWTClaims{UserID: user.ID}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Revalidate(context.Background(), unsigned)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestTokenServiceRejectsDeletedUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewTokenService(users, TokenConfig{Secret: "secret"})
	raw, err := svc.Issue(&models.User{ID: 42, Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.Revalidate(context.Background(), raw)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

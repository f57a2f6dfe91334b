package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/share2teach-api/internal/models"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
)

// TokenAuthority issues bearer tokens and decides whether a presented token is still honoured.
// Claims are advisory until Revalidate has checked them against the stored token version.
type TokenAuthority interface {
	Issue(user *models.User) (string, error)
	Revalidate(ctx context.Context, rawToken string) (*models.JWTClaims, error)
}

type tokenStateReader interface {
	TokenState(ctx context.Context, id int64) (*models.TokenState, error)
}

// TokenConfig configures token signing.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// TokenService is the HS256 TokenAuthority backed by the users table.
type TokenService struct {
	users  tokenStateReader
	config TokenConfig
	now    func() time.Time
}

// NewTokenService constructs a TokenService.
func NewTokenService(users tokenStateReader, cfg TokenConfig) *TokenService {
	if cfg.Expiry <= 0 {
		cfg.Expiry = time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "share2teach"
	}
	return &TokenService{users: users, config: cfg, now: time.Now}
}

// Issue signs a token embedding the user's id, email, role and current token version.
func (s *TokenService) Issue(user *models.User) (string, error) {
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiry)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", internalError(err, "failed to sign token")
	}
	return signed, nil
}

// Revalidate verifies the signature and expiry, then checks the embedded token version against
// the stored one. The returned claims carry the stored role, so role changes apply immediately.
func (s *TokenService) Revalidate(ctx context.Context, rawToken string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, appErrors.ErrUnauthorized.Message)
	}

	state, err := s.users.TokenState(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "User not found")
		}
		return nil, internalError(err, "failed to revalidate token")
	}
	if state.TokenVersion != claims.TokenVersion {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Token is invalid due to version mismatch")
	}

	claims.Role = state.Role
	return claims, nil
}

package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/service"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/response"
)

// ContextUserKey is the gin context key storing revalidated JWT claims.
const ContextUserKey = "currentUser"

// TokenHeader is the legacy header carrying a bare token.
const TokenHeader = "jwt_token"

type tokenRevalidator interface {
	Revalidate(ctx context.Context, rawToken string) (*models.JWTClaims, error)
}

// Authorize requires a token that is still honoured by the token authority.
func Authorize(tokens tokenRevalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			response.Abort(c, appErrors.ErrMissingToken)
			return
		}
		claims, err := tokens.Revalidate(c.Request.Context(), raw)
		if err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and otherwise continues anonymously.
func OptionalAuth(tokens tokenRevalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			if claims, err := tokens.Revalidate(c.Request.Context(), raw); err == nil {
				c.Set(ContextUserKey, claims)
			}
		}
		c.Next()
	}
}

// StrictOptionalAuth lets anonymous callers through but rejects a token that fails revalidation.
func StrictOptionalAuth(tokens tokenRevalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}
		claims, err := tokens.Revalidate(c.Request.Context(), raw)
		if err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// Claims returns the revalidated claims for the request, or nil for anonymous callers.
func Claims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}

// Caller returns the request's caller, or nil for anonymous callers.
func Caller(c *gin.Context) *service.Caller {
	return service.CallerFromClaims(Claims(c))
}

func bearerToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(TokenHeader)); token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

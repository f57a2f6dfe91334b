package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/share2teach-api/internal/models"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
)

// Caller identifies who issued a request. A nil *Caller is an anonymous visitor.
type Caller struct {
	UserID int64
	Role   models.UserRole
}

// CallerFromClaims converts verified token claims into a Caller.
func CallerFromClaims(claims *models.JWTClaims) *Caller {
	if claims == nil {
		return nil
	}
	return &Caller{UserID: claims.UserID, Role: claims.Role}
}

// ID returns the caller's user id, or nil for anonymous visitors.
func (c *Caller) ID() *int64 {
	if c == nil {
		return nil
	}
	id := c.UserID
	return &id
}

// Privileged reports whether the caller may see documents in every moderation state.
func (c *Caller) Privileged() bool {
	return c != nil && c.Role.Privileged()
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

// failedField returns the struct field and tag of the first validation failure.
func failedField(err error) (string, string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Tag()
	}
	return "", ""
}

package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/repository"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/mailer"
)

type authUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error
	IncrementTokenVersion(ctx context.Context, id int64) error
	SetResetToken(ctx context.Context, id int64, digest string, expires time.Time) error
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*models.User, error)
	ResetPassword(ctx context.Context, id int64, digest, passwordHash string) error
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
	UpdateRole(ctx context.Context, id int64, role models.UserRole) (*models.User, error)
}

type resetMailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

type activityRecorder interface {
	Record(ctx context.Context, userID *int64, activityType, description string)
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	ResetTokenTTL time.Duration
	FrontendURL   string
	BcryptCost    int
}

// AuthService provides account use cases.
type AuthService struct {
	repo      authUserRepository
	tokens    TokenAuthority
	mail      resetMailer
	activity  activityRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, tokens TokenAuthority, mail resetMailer, activity activityRecorder, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = time.Hour
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:      repo,
		tokens:    tokens,
		mail:      mail,
		activity:  activity,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// Register creates an open-access account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, registrationError(err)
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.ErrUserExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, internalError(err, "failed to check existing user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	user := &models.User{
		Fname:        strings.TrimSpace(req.Fname),
		Lname:        strings.TrimSpace(req.Lname),
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleOpenAccess,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, appErrors.ErrUserExists
		}
		return nil, internalError(err, "failed to create user")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, &user.ID, models.ActivityRegister, fmt.Sprintf("User %s registered", user.Email))
	return &models.TokenResponse{JWTToken: token}, nil
}

// Login authenticates a user and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		if field, tag := failedField(err); field == "Email" && tag == "email" {
			return nil, validationError(err, "Invalid Email")
		}
		return nil, validationError(err, "Please provide both email and password")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, internalError(err, "failed to fetch user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, &user.ID, models.ActivityLogin, "User logged in")
	return &models.TokenResponse{JWTToken: token}, nil
}

// Logout revokes every token issued to the user.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.repo.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return internalError(err, "Error logging out")
	}
	s.activity.Record(ctx, &userID, models.ActivityLogout, "User logged out")
	return nil
}

// ForgotPassword stores a one-hour reset token and mails the reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "Invalid Email")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return internalError(err, "failed to fetch user")
	}

	token, digest, err := newResetToken()
	if err != nil {
		return internalError(err, "failed to generate reset token")
	}
	if err := s.repo.SetResetToken(ctx, user.ID, digest, s.now().UTC().Add(s.config.ResetTokenTTL)); err != nil {
		return internalError(err, "failed to store reset token")
	}

	link := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(s.config.FrontendURL, "/"), token)
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Password Reset",
		Body: "You are receiving this because you (or someone else) have requested the reset of the password for your account.\n\n" +
			"Please click on the following link, or paste it into your browser, to complete the process:\n\n" +
			link + "\n\n" +
			"If you did not request this, please ignore this email and your password will remain unchanged.\n",
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Error sending reset email")
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password. Outstanding tokens are revoked.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		if field, _ := failedField(err); field == "Token" {
			return validationError(err, "Password reset token is invalid or has expired")
		}
		return validationError(err, "Password must be at least 6 characters")
	}
	if req.Password != req.ConfirmPassword {
		return appErrors.Clone(appErrors.ErrValidation, "Passwords do not match")
	}

	digest := digestResetToken(req.Token)
	user, err := s.repo.FindByResetToken(ctx, digest, s.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "Password reset token is invalid or has expired")
		}
		return internalError(err, "failed to look up reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return internalError(err, "failed to hash password")
	}
	if err := s.repo.ResetPassword(ctx, user.ID, digest, string(hash)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "Password reset token is invalid or has expired")
		}
		return internalError(err, "failed to reset password")
	}
	s.activity.Record(ctx, &user.ID, models.ActivityPasswordReset, "Password reset")
	return nil
}

// SweepResetTokens clears reset tokens whose expiry has passed.
func (s *AuthService) SweepResetTokens(ctx context.Context) error {
	n, err := s.repo.ClearExpiredResetTokens(ctx, s.now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("expired reset tokens cleared", zap.Int64("count", n))
	}
	return nil
}

// AssignRole changes a user's role. The stored role is re-read on every request, so
// existing tokens pick up the change without being revoked.
func (s *AuthService) AssignRole(ctx context.Context, actor *Caller, req models.AssignRoleRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Please provide user_id and role")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid role")
	}

	user, err := s.repo.UpdateRole(ctx, req.UserID, req.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, internalError(err, "failed to update role")
	}
	s.activity.Record(ctx, actor.ID(), models.ActivityAssignRole, fmt.Sprintf("Assigned role %s to user %d", req.Role, req.UserID))
	return user, nil
}

// ActiveUser returns the caller's name.
func (s *AuthService) ActiveUser(ctx context.Context, userID int64) (*models.ActiveUserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, internalError(err, "failed to load user")
	}
	return &models.ActiveUserResponse{Fname: user.Fname, Lname: user.Lname}, nil
}

func registrationError(err error) error {
	field, tag := failedField(err)
	switch {
	case field == "Email" && tag == "email":
		return validationError(err, "Invalid Email")
	case field == "Password" && tag == "min":
		return validationError(err, "Password must be at least 6 characters")
	}
	return validationError(err, "Please provide all required fields: fname, lname, username, email, and password")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newResetToken returns the token mailed to the user and the digest persisted for lookup.
func newResetToken() (string, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token := hex.EncodeToString(buf)
	return token, digestResetToken(token), nil
}

func digestResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

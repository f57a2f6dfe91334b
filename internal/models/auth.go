package models

import "github.com/golang-jwt/jwt/v5"

// RegisterRequest creates an open-access account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Fname    string `json:"Fname" validate:"required,max=100"`
	Lname    string `json:"Lname" validate:"required,max=100"`
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow; the token travels in the path.
type ResetPasswordRequest struct {
	Token           string `json:"-" validate:"required"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// AssignRoleRequest changes a user's role.
type AssignRoleRequest struct {
	UserID int64    `json:"user_id" validate:"required,gt=0"`
	Role   UserRole `json:"role" validate:"required"`
}

// TokenResponse carries a freshly issued token.
type TokenResponse struct {
	JWTToken string `json:"jwtToken"`
}

// ActiveUserResponse names the caller.
type ActiveUserResponse struct {
	Fname string `json:"Fname"`
	Lname string `json:"Lname"`
}

// JWTClaims represents the token payload. TokenVersion must match the stored counter
// for the token to be honoured.
type JWTClaims struct {
	UserID       int64    `json:"id"`
	Email        string   `json:"email"`
	Role         UserRole `json:"role"`
	TokenVersion int      `json:"token_version"`
	jwt.RegisteredClaims
}

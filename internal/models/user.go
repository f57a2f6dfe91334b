package models

import "time"

// UserRole represents the available roles for route allow-lists.
type UserRole string

const (
	RoleOpenAccess UserRole = "open-access"
	RoleEducator   UserRole = "educator"
	RoleModerator  UserRole = "moderator"
	RoleAdmin      UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleOpenAccess, RoleEducator, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Privileged roles see documents in every moderation state.
func (r UserRole) Privileged() bool {
	return r == RoleAdmin || r == RoleModerator
}

// User represents an account stored in the users table.
type User struct {
	ID                   int64      `db:"user_id" json:"user_id"`
	Fname                string     `db:"fname" json:"fname"`
	Lname                string     `db:"lname" json:"lname"`
	Username             string     `db:"username" json:"username"`
	Email                string     `db:"email" json:"email"`
	PasswordHash         string     `db:"password_hash" json:"-"`
	Role                 UserRole   `db:"role" json:"role"`
	TokenVersion         int        `db:"token_version" json:"-"`
	ResetPasswordToken   *string    `db:"reset_password_token" json:"-"`
	ResetPasswordExpires *time.Time `db:"reset_password_expires" json:"-"`
	LastLogin            *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
}

// TokenState is the slice of a user row needed to revalidate an issued token.
type TokenState struct {
	TokenVersion int      `db:"token_version"`
	Role         UserRole `db:"role"`
}

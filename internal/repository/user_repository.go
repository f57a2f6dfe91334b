package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/share2teach-api/internal/models"
)

const userColumns = `user_id, fname, lname, username, email, password_hash, role, token_version, reset_password_token, reset_password_expires, last_login, created_at`

// UserRepository provides database access for accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and fills in the generated columns. A duplicate email yields ErrUniqueViolation.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `INSERT INTO users (fname, lname, username, email, password_hash, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING user_id, token_version, created_at`
	row := r.db.QueryRowxContext(ctx, query, user.Fname, user.Lname, user.Username, user.Email, user.PasswordHash, user.Role)
	if err := row.Scan(&user.ID, &user.TokenVersion, &user.CreatedAt); err != nil {
		return fmt.Errorf("create user: %w", translate(err))
	}
	return nil
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// TokenState reads the columns a bearer token is revalidated against.
func (r *UserRepository) TokenState(ctx context.Context, id int64) (*models.TokenState, error) {
	const query = `SELECT token_version, role FROM users WHERE user_id = $1`
	var state models.TokenState
	if err := r.db.GetContext(ctx, &state, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("read token state: %w", err)
	}
	return &state, nil
}

// UpdateLastLogin updates the last_login timestamp for a user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// IncrementTokenVersion revokes every token issued to the user so far.
func (r *UserRepository) IncrementTokenVersion(ctx context.Context, id int64) error {
	const query = `UPDATE users SET token_version = token_version + 1 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment token version: %w", err)
	}
	return expectAffected(res)
}

// SetResetToken stores the digest of a password reset token and its expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, id int64, digest string, expires time.Time) error {
	const query = `UPDATE users SET reset_password_token = $2, reset_password_expires = $3 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, id, digest, expires)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return expectAffected(res)
}

// FindByResetToken returns the user holding an unexpired reset token digest.
func (r *UserRepository) FindByResetToken(ctx context.Context, digest string, now time.Time) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_password_token = $1 AND reset_password_expires > $2 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, digest, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by reset token: %w", err)
	}
	return &user, nil
}

// ResetPassword stores the new hash, consumes the reset token and revokes outstanding tokens.
// The digest guard makes a token usable once even under concurrent requests.
func (r *UserRepository) ResetPassword(ctx context.Context, id int64, digest, passwordHash string) error {
	const query = `UPDATE users
SET password_hash = $3, reset_password_token = NULL, reset_password_expires = NULL, token_version = token_version + 1
WHERE user_id = $1 AND reset_password_token = $2`
	res, err := r.db.ExecContext(ctx, query, id, digest, passwordHash)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return expectAffected(res)
}

// ClearExpiredResetTokens drops reset tokens whose expiry has passed.
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	const query = `UPDATE users SET reset_password_token = NULL, reset_password_expires = NULL
WHERE reset_password_token IS NOT NULL AND reset_password_expires <= $1`
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("clear expired reset tokens: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// UpdateRole changes the user's role and returns the updated row.
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role models.UserRole) (*models.User, error) {
	query := `UPDATE users SET role = $2 WHERE user_id = $1 RETURNING ` + userColumns
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	return &user, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

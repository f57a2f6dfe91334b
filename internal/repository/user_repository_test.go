package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/share2teach-api/internal/models"
)

var userRowColumns = []string{"user_id", "fname", "lname", "username", "email", "password_hash", "role", "token_version", "reset_password_token", "reset_password_expires", "last_login", "created_at"}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ada", "Lovelace", "ada", "ada@example.com", "hash", "open-access").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "token_version", "created_at"}).AddRow(7, 0, now))

	user := &models.User{Fname: "Ada", Lname: "Lovelace", Username: "ada", Email: "ada@example.com", PasswordHash: "hash", Role: models.RoleOpenAccess}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	require.Equal(t, int64(7), user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	err := NewUserRepository(db).Create(context.Background(), &models.User{Email: "dup@example.com"})
	require.ErrorIs(t, err, ErrUniqueViolation)
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(userRowColumns).
		AddRow(3, "Grace", "Hopper", "grace", "grace@example.com", "hash", "educator", 2, nil, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("grace@example.com").
		WillReturnRows(rows)

	user, err := NewUserRepository(db).FindByEmail(context.Background(), "grace@example.com")
	require.NoError(t, err)
	require.Equal(t, models.RoleEducator, user.Role)
	require.Equal(t, 2, user.TokenVersion)
}

func TestUserRepositoryFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := NewUserRepository(db).FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryResetPasswordConsumesTokenOnce(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users\nSET password_hash = $3")).
		WithArgs(int64(4), "digest", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users\nSET password_hash = $3")).
		WithArgs(int64(4), "digest", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepository(db)
	require.NoError(t, repo.ResetPassword(context.Background(), 4, "digest", "newhash"))
	require.ErrorIs(t, repo.ResetPassword(context.Background(), 4, "digest", "newhash"), sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryTokenState(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT token_version, role FROM users")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"token_version", "role"}).AddRow(5, "moderator"))

	state, err := NewUserRepository(db).TokenState(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, 5, state.TokenVersion)
	require.Equal(t, models.RoleModerator, state.Role)
}

func TestUserRepositoryClearExpiredResetTokens(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("reset_password_expires <= $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewUserRepository(db).ClearExpiredResetTokens(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

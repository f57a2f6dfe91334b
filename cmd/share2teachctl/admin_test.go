package main

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/share2teach-api/internal/models"
)

type memoryAdminStore struct {
	users  map[string]*models.User
	nextID int64
}

func (m *memoryAdminStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memoryAdminStore) Create(_ context.Context, user *models.User) error {
	m.nextID++
	user.ID = m.nextID
	m.users[user.Email] = user
	return nil
}

func (m *memoryAdminStore) UpdateRole(_ context.Context, id int64, role models.UserRole) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			u.Role = role
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func TestEnsureAdminCreatesAccount(t *testing.T) {
	store := &memoryAdminStore{users: map[string]*models.User{}}

	user, created, err := ensureAdmin(context.Background(), store, adminAccount{
		Email: " Root@Example.com ", Password: "secret1", Fname: "Site", Lname: "Admin",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "root@example.com", user.Email)
	assert.Equal(t, "root", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
}

func TestEnsureAdminPromotesExisting(t *testing.T) {
	store := &memoryAdminStore{users: map[string]*models.User{
		"educator@example.com": {ID: 7, Email: "educator@example.com", Role: models.RoleEducator},
	}, nextID: 7}

	user, created, err := ensureAdmin(context.Background(), store, adminAccount{Email: "educator@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestEnsureAdminNeedsPasswordForNewAccount(t *testing.T) {
	store := &memoryAdminStore{users: map[string]*models.User{}}

	_, _, err := ensureAdmin(context.Background(), store, adminAccount{Email: "new@example.com", Password: "abc"})
	require.Error(t, err)
	assert.Empty(t, store.users)
}

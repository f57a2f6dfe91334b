package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/repository"
)

var createAdminFlags struct {
	email    string
	password string
	fname    string
	lname    string
	username string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create or promote an admin account",
	Long: `Create an admin account, or promote an existing account to admin.

Only admins can assign roles through the API, so the first admin has to be
created here.

Examples:
  # Create a new admin
  share2teachctl create-admin --email admin@example.com --password s3cret!

  # Promote an existing user
  share2teachctl create-admin --email educator@example.com`,
	RunE: runCreateAdmin,
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&createAdminFlags.email, "email", "", "account email (required)")
	f.StringVar(&createAdminFlags.password, "password", "", "password for a new account")
	f.StringVar(&createAdminFlags.fname, "first-name", "Site", "first name for a new account")
	f.StringVar(&createAdminFlags.lname, "last-name", "Admin", "last name for a new account")
	f.StringVar(&createAdminFlags.username, "username", "", "username for a new account (defaults to the email local part)")
	_ = createAdminCmd.MarkFlagRequired("email")
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	user, created, err := ensureAdmin(cmd.Context(), repository.NewUserRepository(db), adminAccount{
		Email:    createAdminFlags.email,
		Password: createAdminFlags.password,
		Fname:    createAdminFlags.fname,
		Lname:    createAdminFlags.lname,
		Username: createAdminFlags.username,
	})
	if err != nil {
		return err
	}
	verb := "promoted"
	if created {
		verb = "created"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s admin %s (id %d)\n", verb, user.Email, user.ID)
	return nil
}

type adminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id int64, role models.UserRole) (*models.User, error)
}

type adminAccount struct {
	Email    string
	Password string
	Fname    string
	Lname    string
	Username string
}

// ensureAdmin promotes the account for acct.Email or creates it. The boolean reports creation.
func ensureAdmin(ctx context.Context, store adminStore, acct adminAccount) (*models.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(acct.Email))
	if email == "" {
		return nil, false, errors.New("email is required")
	}

	existing, err := store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return existing, false, nil
		}
		user, err := store.UpdateRole(ctx, existing.ID, models.RoleAdmin)
		if err != nil {
			return nil, false, fmt.Errorf("promote %s: %w", email, err)
		}
		return user, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, fmt.Errorf("lookup %s: %w", email, err)
	}

	if len(acct.Password) < 6 {
		return nil, false, errors.New("a password of at least 6 characters is required for a new account")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(acct.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	username := acct.Username
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	user := &models.User{
		Fname:        acct.Fname,
		Lname:        acct.Lname,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := store.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create %s: %w", email, err)
	}
	return user, true, nil
}

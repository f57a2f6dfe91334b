package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/share2teach-api/pkg/database"
)

var migrateFlags struct {
	print bool
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply the embedded schema to the configured database.

Every statement is idempotent, so running migrate against an up-to-date
database is a no-op.

Examples:
  # Apply the schema
  share2teachctl migrate

  # Print the schema without touching the database
  share2teachctl migrate --print`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateFlags.print, "print", false, "print the schema instead of applying it")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if migrateFlags.print {
		fmt.Fprintln(cmd.OutOrStdout(), database.Schema())
		return nil
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(cmd.Context(), db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
	return nil
}

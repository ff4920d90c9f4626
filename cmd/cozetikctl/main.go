// Command cozetikctl runs operator tasks against the Cozetik database.
//
//	go run ./cmd/cozetikctl seed-admin --email admin@cozetik.fr --password '...'
//	go run ./cmd/cozetikctl candidatures list --status NEW
//	go run ./cmd/cozetikctl formations add --id sophrologie --title Sophrologie --session 2027-01-12
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cozetik-backend/internal/shared/config"
	"cozetik-backend/internal/shared/storage/db"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cozetikctl",
		Short:         "Operator tasks for the Cozetik backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newSeedAdminCmd(openDatabase), newCandidaturesCmd(openDatabase), newFormationsCmd(openDatabase))
	return root
}

// dbOpener returns a migrated database handle.
type dbOpener func(ctx context.Context) (*sql.DB, error)

func openDatabase(ctx context.Context) (*sql.DB, error) {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cozetik-backend/internal/users"
)

type seedAdminOptions struct {
	Email    string
	Name     string
	Password string
}

func newSeedAdminCmd(open dbOpener) *cobra.Command {
	var opts seedAdminOptions
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create or update a back-office administrator",
		Long: `Creates the administrator account used to sign in to the back office.
Flags fall back to ADMIN_SEED_EMAIL, ADMIN_SEED_NAME and ADMIN_SEED_PASSWORD.
Running it again for the same email resets the password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts = opts.withEnv(os.Getenv)
			sqlDB, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			return runSeedAdmin(cmd.Context(), cmd.OutOrStdout(), &users.PGRepo{DB: sqlDB}, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "administrator email")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (8 characters minimum)")
	return cmd
}

func (o seedAdminOptions) withEnv(getenv func(string) string) seedAdminOptions {
	if o.Email == "" {
		o.Email = getenv("ADMIN_SEED_EMAIL")
	}
	if o.Name == "" {
		o.Name = getenv("ADMIN_SEED_NAME")
	}
	if o.Password == "" {
		o.Password = getenv("ADMIN_SEED_PASSWORD")
	}
	if strings.TrimSpace(o.Name) == "" {
		o.Name = "Administrateur"
	}
	return o
}

func runSeedAdmin(ctx context.Context, out io.Writer, repo users.Repo, opts seedAdminOptions) error {
	if strings.TrimSpace(opts.Email) == "" || opts.Password == "" {
		return errors.New("email and password are required (flags or ADMIN_SEED_EMAIL / ADMIN_SEED_PASSWORD)")
	}
	svc := users.NewService(repo, nil)
	user, err := svc.Seed(ctx, opts.Email, opts.Name, opts.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	fmt.Fprintf(out, "admin ready: %s (%s)\n", user.Email, user.ID)
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cozetik-backend/internal/inscriptions"
)

type formationWriter interface {
	Upsert(ctx context.Context, ref inscriptions.FormationRef, sessions ...inscriptions.Session) error
}

type formationOptions struct {
	ID       string
	Title    string
	Slug     string
	Sessions []string
}

func newFormationsCmd(open dbOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formations",
		Short: "Manage the formations open to inscriptions",
	}

	var opts formationOptions
	add := &cobra.Command{
		Use:   "add",
		Short: "Create or rename a formation and add sessions to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, sessions, err := opts.parse()
			if err != nil {
				return err
			}
			sqlDB, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			return runAddFormation(cmd.Context(), cmd.OutOrStdout(), &inscriptions.PGFormations{DB: sqlDB}, ref, sessions)
		},
	}
	add.Flags().StringVar(&opts.ID, "id", "", "formation id")
	add.Flags().StringVar(&opts.Title, "title", "", "formation title")
	add.Flags().StringVar(&opts.Slug, "slug", "", "URL slug (defaults to the id)")
	add.Flags().StringSliceVar(&opts.Sessions, "session", nil, "session start date YYYY-MM-DD (repeatable)")
	cmd.AddCommand(add)
	return cmd
}

func (o formationOptions) parse() (inscriptions.FormationRef, []inscriptions.Session, error) {
	ref := inscriptions.FormationRef{
		ID:    strings.TrimSpace(o.ID),
		Title: strings.TrimSpace(o.Title),
		Slug:  strings.TrimSpace(o.Slug),
	}
	if ref.ID == "" || ref.Title == "" {
		return ref, nil, errors.New("--id and --title are required")
	}
	if ref.Slug == "" {
		ref.Slug = ref.ID
	}
	sessions := make([]inscriptions.Session, 0, len(o.Sessions))
	for _, raw := range o.Sessions {
		start, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
		if err != nil {
			return ref, nil, fmt.Errorf("invalid --session %q", raw)
		}
		sessions = append(sessions, inscriptions.Session{Start: start, Available: true})
	}
	return ref, sessions, nil
}

func runAddFormation(ctx context.Context, out io.Writer, w formationWriter, ref inscriptions.FormationRef, sessions []inscriptions.Session) error {
	if err := w.Upsert(ctx, ref, sessions...); err != nil {
		return fmt.Errorf("add formation: %w", err)
	}
	fmt.Fprintf(out, "formation ready: %s (%d session(s) added)\n", ref.ID, len(sessions))
	return nil
}

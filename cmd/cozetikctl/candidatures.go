package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cozetik-backend/internal/candidatures"
	"cozetik-backend/internal/shared/leadstatus"
)

func newCandidaturesCmd(open dbOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidatures",
		Short: "Inspect received candidatures",
	}

	var (
		status string
		limit  int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List candidatures, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := candidatures.ListFilter{Limit: limit}
			if status != "" {
				parsed, err := leadstatus.Parse(status)
				if err != nil {
					return fmt.Errorf("invalid --status %q", status)
				}
				filter.Status = parsed
			}
			sqlDB, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			return runListCandidatures(cmd.Context(), cmd.OutOrStdout(), &candidatures.PGRepo{DB: sqlDB}, filter)
		},
	}
	list.Flags().StringVar(&status, "status", "", "filter by status (NEW, TREATED, ARCHIVED)")
	list.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	cmd.AddCommand(list)
	return cmd
}

func runListCandidatures(ctx context.Context, out io.Writer, repo candidatures.Repo, filter candidatures.ListFilter) error {
	items, err := repo.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list candidatures: %w", err)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tNAME\tEMAIL\tFORMATION")
	for _, c := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\t%s\n",
			c.ID, c.CreatedAt.Format("2006-01-02 15:04"), c.Status,
			c.FirstName, c.LastName, c.Email, c.Formation)
	}
	return w.Flush()
}

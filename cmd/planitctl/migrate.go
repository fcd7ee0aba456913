package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/planit/migrations"
)

func migrateCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect the Postgres schema migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL (default $DATABASE_URL)")

	withProvider := func(fn func(ctx context.Context, p *goose.Provider, out io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			url := envOr(databaseURL, "DATABASE_URL")
			if url == "" {
				return errors.New("no database: set --database-url or DATABASE_URL")
			}
			db, err := sql.Open("pgx", url)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			p, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
			if err != nil {
				return fmt.Errorf("create goose provider: %w", err)
			}
			return fn(cmd.Context(), p, cmd.OutOrStdout())
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withProvider(func(ctx context.Context, p *goose.Provider, out io.Writer) error {
				results, err := p.Up(ctx)
				if err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				if len(results) == 0 {
					fmt.Fprintln(out, "schema is up to date")
				}
				for _, r := range results {
					fmt.Fprintf(out, "applied %s (%s)\n", r.Source.Path, r.Duration)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: withProvider(func(ctx context.Context, p *goose.Provider, out io.Writer) error {
				r, err := p.Down(ctx)
				if err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				fmt.Fprintf(out, "rolled back %s\n", r.Source.Path)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "List every migration and whether it is applied",
			Args:  cobra.NoArgs,
			RunE: withProvider(func(ctx context.Context, p *goose.Provider, out io.Writer) error {
				statuses, err := p.Status(ctx)
				if err != nil {
					return fmt.Errorf("migrate status: %w", err)
				}
				for _, s := range statuses {
					applied := "pending"
					if s.State == goose.StateApplied {
						applied = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(out, "%-40s %s\n", s.Source.Path, applied)
				}
				return nil
			}),
		},
	)
	return cmd
}

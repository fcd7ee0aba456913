package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/planit/internal/auth"
)

func tokenCmd() *cobra.Command {
	var (
		userID string
		secret string
		issuer string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for a user id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("--user: %w", err)
			}
			cfg := auth.Config{
				Secret: envOr(secret, "JWT_SECRET"),
				Issuer: envOr(issuer, "JWT_ISSUER"),
				TTL:    ttl,
			}
			if cfg.Secret == "" {
				return errors.New("no signing secret: set --secret or JWT_SECRET")
			}
			if cfg.Issuer == "" {
				cfg.Issuer = "planit"
			}

			token, err := auth.Issue(id, cfg, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id the token identifies")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (default $JWT_SECRET)")
	cmd.Flags().StringVar(&issuer, "issuer", "", `token issuer (default $JWT_ISSUER or "planit")`)
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

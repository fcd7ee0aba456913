// Package main is planitctl, the operator CLI for the Planit API: it applies
// database migrations and mints bearer tokens for testing against a running
// server.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "planitctl",
		Short:         "Operate a Planit deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Values in ./.env fill in variables the environment does not set,
		// the same way the API server reads its configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			return nil
		},
	}
	cmd.AddCommand(migrateCmd(), tokenCmd())
	return cmd
}

// envOr returns v, or the named environment variable when v is empty.
func envOr(v, name string) string {
	if v != "" {
		return v
	}
	return os.Getenv(name)
}

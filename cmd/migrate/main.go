package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Rrens/wardrobe-stylist/internal/config"
	"github.com/Rrens/wardrobe-stylist/internal/repository/sqlite"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the local settings database schema",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&path, "db", "", "SQLite database path, defaults to settings.path from config")

	open := func(cmd *cobra.Command) (*sqlite.DB, error) {
		if path == "" {
			cfg, err := config.Load()
			if err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
			path = cfg.Settings.Path
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opening database at %s...\n", path)
		return sqlite.Open(context.Background(), path)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := open(cmd)
				if err != nil {
					return err
				}
				defer db.Close()

				if err := sqlite.RunMigrations(db); err != nil {
					return err
				}
				return printVersion(cmd, db)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := open(cmd)
				if err != nil {
					return err
				}
				defer db.Close()

				if err := sqlite.RollbackMigrations(db); err != nil {
					return err
				}
				return printVersion(cmd, db)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := open(cmd)
				if err != nil {
					return err
				}
				defer db.Close()
				return printVersion(cmd, db)
			},
		},
	)
	return cmd
}

func printVersion(cmd *cobra.Command, db *sqlite.DB) error {
	version, dirty, err := sqlite.MigrationVersion(db)
	if err != nil {
		return err
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d (%s)\n", version, state)
	return nil
}

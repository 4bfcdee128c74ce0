package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/intellitrip-backend/internal/adapter/postgres"
	"github.com/heartmarshall/intellitrip-backend/internal/config"
)

func newMigrateCmd() *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if !statusOnly {
				if err := postgres.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			version, err := postgres.MigrationStatus(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "only print the current schema version")
	return cmd
}

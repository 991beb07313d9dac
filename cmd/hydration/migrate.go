package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"serotonyl.ru/hydration/internal/config"
	"serotonyl.ru/hydration/internal/db/postgres"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cfg.StorageBackend != config.StoragePostgres {
				return fmt.Errorf("миграции нужны только для STORAGE_BACKEND=%s", config.StoragePostgres)
			}

			pool, err := postgres.NewPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			return postgres.RunMigrations(cmd.Context(), pool)
		},
	}
}

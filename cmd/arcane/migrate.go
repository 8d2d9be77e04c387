package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/annalhq/arcane/internal/config"
	"github.com/annalhq/arcane/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations (sql backend only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Store.Backend != "sql" {
				return fmt.Errorf("migrate only applies to the sql backend (ARCANE_STORE_BACKEND=%s)", cfg.Store.Backend)
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			logrus.Info("migrations complete")
			return nil
		},
	}
}

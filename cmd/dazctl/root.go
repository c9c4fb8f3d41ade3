package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dazhangman/internal/config"
	"dazhangman/internal/database"
	"dazhangman/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dazctl",
		Short:         "Administration tool for the DaZ hangman backend",
		SilenceUsage:  true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newExportCmd(),
		newImportCmd(),
		newMigrateLegacyCmd(),
		newCatalogCmd(),
		newDigestCmd(),
		newTokenCmd(),
	)
	return root
}

// env is what most commands need: config, logger and a migrated database
type env struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *database.DB
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	return cfg, logging.New(cfg.Log), nil
}

// openEnv loads the config and opens the database with an up to date schema
func openEnv(ctx context.Context) (*env, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := database.InitializeWithConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) Close() error {
	return e.db.Close()
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dazhangman/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.InitializeWithConfig(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			applied, err := db.RunMigrations(cmd.Context())
			if err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			if len(applied) == 0 {
				cmd.Println("schema is up to date")
				return nil
			}
			for _, name := range applied {
				cmd.Printf("applied %s\n", name)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dazhangman/internal/catalog"
	"dazhangman/internal/models"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the per-level word lists",
	}
	cmd.PersistentFlags().String("dir", "", "word list directory (default catalog.dir)")
	cmd.AddCommand(newCatalogImportCmd(), newCatalogExportCmd())
	return cmd
}

// catalogDir prefers the --dir flag over the configured directory
func catalogDir(cmd *cobra.Command) (string, error) {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return dir, nil
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Catalog.Dir, nil
}

func newCatalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <workbook.xlsx|file.csv>",
		Short: "Split a master word list into one list per level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := catalogDir(cmd)
			if err != nil {
				return err
			}
			res, err := catalog.ImportSpreadsheet(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			for _, level := range models.Levels {
				rows := res.Rows[level]
				if len(rows) == 0 {
					continue
				}
				path, err := catalog.WriteText(dir, level, rows)
				if err != nil {
					return err
				}
				cmd.Printf("%s: %d words -> %s\n", level, len(rows), path)
			}
			for _, skipped := range res.Skipped {
				cmd.PrintErrf("skipped %s\n", skipped)
			}
			return nil
		},
	}
}

func newCatalogExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <workbook.xlsx>",
		Short: "Write every level list into one workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := catalogDir(cmd)
			if err != nil {
				return err
			}
			rows, err := catalog.ReadLevelRows(catalog.NewFileSource(dir))
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no word lists found in %s", dir)
			}
			if err := catalog.WriteSpreadsheet(args[0], rows); err != nil {
				return err
			}
			cmd.Printf("exported %d levels to %s\n", len(rows), args[0])
			return nil
		},
	}
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"dazhangman/internal/repository"
	"dazhangman/internal/service"
)

func newBackupService(e *env) *service.BackupService {
	return service.NewBackupService(
		repository.NewProfileRepository(e.db),
		repository.NewOutcomeRepository(e.db),
		e.logger,
	)
}

func defaultExportFilename(now time.Time) string {
	return fmt.Sprintf("dazhangman-backup-%s.json", now.UTC().Format("20060102-150405"))
}

func newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all learner profiles and round history as JSON",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			if output == "" {
				output = defaultExportFilename(time.Now())
			}
			var w io.Writer = cmd.OutOrStdout()
			if output != "-" {
				if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create backup file: %w", err)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}

			if err := newBackupService(e).Export(cmd.Context(), w); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			if output != "-" {
				cmd.PrintErrf("export complete: %s\n", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default dazhangman-backup-<timestamp>.json)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore a backup written by export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open backup: %w", err)
			}
			defer f.Close()

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := newBackupService(e).Import(cmd.Context(), f, replace)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			cmd.Printf("imported %d profiles, %d rounds (%d skipped)\n", res.Profiles, res.Outcomes, res.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "delete all existing data before importing")
	return cmd
}

func newMigrateLegacyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-legacy <user_profiles.json>",
		Short: "Import profiles from the old JSON profile file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open legacy file: %w", err)
			}
			defer f.Close()

			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			res, err := newBackupService(e).ImportLegacy(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("legacy import failed: %w", err)
			}
			cmd.Printf("migrated %d profiles (%d already present)\n", res.Profiles, res.Skipped)
			return nil
		},
	}
}

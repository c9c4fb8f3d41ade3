package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dazhangman/internal/models"
	"dazhangman/internal/repository"
	"dazhangman/internal/security"
	"dazhangman/internal/service"
	"dazhangman/internal/validation"
)

func newDigestCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the teacher digest now",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			teachers := service.NewTeacherService(
				repository.NewProfileRepository(e.db),
				repository.NewOutcomeRepository(e.db),
				service.NewLearnerLocks(),
				e.logger,
			)
			reports, err := service.NewReportService(cmd.Context(), e.cfg.Email, teachers, e.logger)
			if err != nil {
				return err
			}

			if dryRun || !reports.IsEnabled() {
				_, _, text, err := reports.RenderDigest(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			if err := reports.SendDigest(cmd.Context()); err != nil {
				return fmt.Errorf("send digest: %w", err)
			}
			cmd.Printf("digest sent to %d recipients\n", len(e.cfg.Email.TeacherRecipients))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the digest instead of sending it")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		learnerID string
		username  string
		role      string
		ttl       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateLearnerID(learnerID); err != nil {
				return err
			}
			r := models.Role(role)
			if r != models.RoleStudent && r != models.RoleTeacher {
				return fmt.Errorf("unknown role %q", role)
			}
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not configured")
			}
			if username == "" {
				username = learnerID
			}

			token, err := security.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer).
				Issue(models.Identity{LearnerID: learnerID, Username: username, Role: r}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&learnerID, "learner", "", "learner id (token subject)")
	cmd.Flags().StringVar(&username, "name", "", "display name (default learner id)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleStudent), "student or teacher")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

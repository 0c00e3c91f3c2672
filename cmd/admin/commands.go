package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"accredapi/internal/auth"
	"accredapi/internal/config"
	"accredapi/internal/database"
	"accredapi/internal/database/migration"
	"accredapi/internal/database/seed"
	"accredapi/internal/model"
	"accredapi/internal/rbac"
)

// rootCommand creates the admin CLI. Every subcommand reads the same environment as the API.
func rootCommand(cfg *config.AppConfig, log *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:          "accredadmin",
		Short:        "Operational tasks for the accreditation evidence API",
		SilenceUsage: true,
	}
	root.AddCommand(
		migrateCommand(cfg, log),
		seedCommand(cfg, log),
		tokenCommand(cfg),
	)
	return root
}

func migrateCommand(cfg *config.AppConfig, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema unless it already exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewPostgres(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()
			return migration.EnsureMigrated(cmd.Context(), db, log, cfg.Database.Host)
		},
	}
}

func seedCommand(cfg *config.AppConfig, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert programs and their area/parameter templates (idempotent)",
		Long: `Insert the configured programs (SEED_PROGRAMS, "CODE:Name;CODE:Name") and
expand the ten-area template under each of them. Existing rows are left untouched,
so the command can be re-run after adding a program.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migration.EnsureMigrated(cmd.Context(), db.SQL, log, cfg.Database.Host); err != nil {
				return err
			}
			stats, err := seed.Run(cmd.Context(), db.Gorm, cfg.Seed.Programs, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d programs, %d areas, %d parameters\n",
				stats.Programs, stats.Areas, stats.Parameters)
			return nil
		},
	}
}

func tokenCommand(cfg *config.AppConfig) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an actor",
		Long: `Issue an HS256 bearer token signed with JWT_SECRET.

Examples:
  accredadmin token --subject=faculty-17 --role=uploader
  accredadmin token --subject=qa-office --role=reviewer --ttl=2h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Auth.JWTSecret == "" {
				return errors.New("JWT_SECRET is required")
			}
			if subject == "" {
				return errors.New("--subject is required")
			}
			if r := rbac.Normalize(role); string(r) != role {
				return fmt.Errorf("invalid role %q: use uploader, reviewer or admin", role)
			}
			if ttl <= 0 {
				ttl = cfg.Auth.TokenTTL
			}

			token, err := auth.IssueToken([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer,
				model.Actor{ID: subject, Role: model.Role(role)}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "actor id carried as the token subject")
	cmd.Flags().StringVar(&role, "role", string(model.RoleUploader), "uploader, reviewer or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_TTL)")
	return cmd
}

package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newRootCmd(cfg config.Config, log zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "Herramientas de administración de Ligue CRM",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "cadena de conexión PostgreSQL")

	root.AddCommand(newMigrateCmd(&cfg, log))
	root.AddCommand(newCreateAdminCmd(&cfg, log))
	return root
}

func newMigrateCmd(cfg *config.Config, log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.NewDBConnection(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("no se pudo conectar a la base de datos: %w", err)
			}
			defer db.Close()
			return database.Migrate(cmd.Context(), db, log)
		},
	}
}

type adminOptions struct {
	name     string
	email    string
	password string
}

func newCreateAdminCmd(cfg *config.Config, log zerolog.Logger) *cobra.Command {
	var opts adminOptions
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Crea un usuario administrador",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.NewDBConnection(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("no se pudo conectar a la base de datos: %w", err)
			}
			defer db.Close()

			res, err := createAdmin(cmd.Context(), *cfg, db, opts, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ administrador creado: %s (%s)\n", res.User.Email, res.User.ID)
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "⚠️ %s\n", w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "Administrador", "nombre visible")
	cmd.Flags().StringVar(&opts.email, "email", "", "email de acceso")
	cmd.Flags().StringVar(&opts.password, "password", "", "contraseña inicial (mínimo 8 caracteres)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func createAdmin(ctx context.Context, cfg config.Config, db *sql.DB, opts adminOptions, log zerolog.Logger) (*usecase.UserResult, error) {
	settings := config.NewSettingsProvider(database.NewSettingsRepository(db), cfg.Defaults, cfg.SettingsTTL, log)
	users := usecase.NewUserUseCase(
		database.NewUserRepository(db),
		auth.NewBcryptHasher(),
		auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
		mail.NewEmailSender(settings, log),
		cfg.FrontendURL,
		log,
	)
	return users.Create(ctx, usecase.CreateUserInput{
		Name:         opts.name,
		Email:        opts.email,
		Password:     opts.password,
		Role:         entity.RoleAdmin,
		HunterAccess: true,
	})
}

package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/config"
	"github.com/KelvenPer/Aura/internal/database"
	"github.com/KelvenPer/Aura/internal/logger"
	"github.com/KelvenPer/Aura/internal/repositories"
	"github.com/KelvenPer/Aura/internal/services"
	"github.com/KelvenPer/Aura/internal/workers"
	"github.com/KelvenPer/Aura/pkg/apperrors"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// NewRootCmd - корневая команда aura. Без подкоманды запускает сервер.
func NewRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "aura",
		Short:         "AURA - clinic management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configFile)
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: $CONFIG_PATH or config/config.yaml)")

	cmd.AddCommand(newServeCmd(&configFile))
	cmd.AddCommand(newMigrateCmd(&configFile))
	cmd.AddCommand(newSeedAdminCmd(&configFile))

	return cmd
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configFile)
		},
	}
}

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, db, err := bootstrap(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}

func newSeedAdminCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the bootstrap admin account if it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := bootstrap(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer database.Close(db)

			svc, err := initializeServices(cfg, clock.Real())
			if err != nil {
				return err
			}
			_, created, err := svc.AuthService.EnsureAdmin(cmd.Context(), db, adminSettings(cfg))
			if err != nil {
				return err
			}
			if created {
				cmd.Println("Admin account created:", cfg.Admin.Email)
			} else {
				cmd.Println("Admin account already present or bootstrap disabled")
			}
			return nil
		},
	}
}

// bootstrap - конфигурация, логгер и подключение к базе
func bootstrap(ctx context.Context, configFile string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").With("path", configFile).Wrap(err)
	}

	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.IsProduction() && cfg.Auth.ExposeResetCode {
		logger.Warn("expose_reset_code is ignored in production")
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func runServe(ctx context.Context, configFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, db, err := bootstrap(ctx, configFile)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
	}

	ginRouter, svc, err := SetupRouter(cfg, db)
	if err != nil {
		return err
	}
	defer svc.EmailService.Close()

	// без администратора сервер не запускаем
	if _, _, err := svc.AuthService.EnsureAdmin(ctx, db, adminSettings(cfg)); err != nil {
		return oops.Code("ADMIN_BOOTSTRAP_FAILED").Wrap(err)
	}

	workers.NewResetTokenWorker(db, repositories.NewPasswordResetRepository(), clock.Real(), workers.DefaultCleanupInterval, workers.DefaultRetention).Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return oops.Code("SERVER_FAILED").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func adminSettings(cfg *config.Config) services.AdminSettings {
	return services.AdminSettings{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
	}
}

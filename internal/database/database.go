package database

import (
	"context"
	"fmt"
	"time"

	"github.com/KelvenPer/Aura/internal/config"
	"github.com/KelvenPer/Aura/internal/logger"
	"github.com/KelvenPer/Aura/internal/models"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Opener открывает *gorm.DB. Подменяется в тестах.
type Opener func(dsn string) (*gorm.DB, error)

func openPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// Connect подключается к базе, повторяя попытки с экспоненциальной паузой,
// пока postgres поднимается (docker compose стартует все сразу).
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	return connect(ctx, cfg, openPostgres, time.Second)
}

func connect(ctx context.Context, cfg config.DatabaseConfig, open Opener, base time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	attempt := 0

	backoff := retry.WithMaxRetries(cfg.ConnectRetries, retry.NewExponential(base))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		conn, err := open(cfg.DSN)
		if err == nil {
			err = ping(ctx, conn)
		}
		if err != nil {
			logger.Warn("Database unavailable, retrying", "attempt", attempt, "error", err.Error())
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("attempts", attempt).Wrap(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("Database connected", "attempts", attempt)
	return db, nil
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

// AutoMigrate создает и обновляет таблицы всех моделей
func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("Database migrations completed")
	return nil
}

// Close закрывает пул соединений
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

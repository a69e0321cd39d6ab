package workers

import (
	"context"
	"time"

	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/logger"
	"github.com/KelvenPer/Aura/internal/repositories"

	"gorm.io/gorm"
)

const (
	DefaultCleanupInterval = time.Hour
	// DefaultRetention - сколько хранить истекшие коды (для разбора инцидентов)
	DefaultRetention = 24 * time.Hour
)

// ResetTokenWorker периодически удаляет давно истекшие коды сброса пароля.
// На корректность погашения не влияет: истекший код и так не принимается.
type ResetTokenWorker struct {
	db        *gorm.DB
	repo      repositories.PasswordResetRepository
	clock     clock.Clock
	interval  time.Duration
	retention time.Duration
}

func NewResetTokenWorker(db *gorm.DB, repo repositories.PasswordResetRepository, clk clock.Clock, interval, retention time.Duration) *ResetTokenWorker {
	if clk == nil {
		clk = clock.Real()
	}
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &ResetTokenWorker{
		db:        db,
		repo:      repo,
		clock:     clk,
		interval:  interval,
		retention: retention,
	}
}

// Start запускает очистку в фоне до отмены ctx
func (w *ResetTokenWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ResetTokenWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reset token worker stopped")
			return
		case <-ticker.C:
			_, _ = w.PurgeOnce(ctx)
		}
	}
}

// PurgeOnce удаляет коды, истекшие раньше now - retention
func (w *ResetTokenWorker) PurgeOnce(ctx context.Context) (int64, error) {
	cutoff := w.clock.Now().Add(-w.retention)
	n, err := w.repo.PurgeExpired(w.db.WithContext(ctx), cutoff)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to purge expired reset tokens", err)
		return 0, err
	}
	if n > 0 {
		logger.CtxInfo(ctx, "Purged expired reset tokens", "count", n)
	}
	return n, nil
}

package workers

import (
	"context"
	"time"

	"photoflow_backend/internal/logger"
	"photoflow_backend/internal/repositories"

	"gorm.io/gorm"
)

type TokenCleanupWorker struct {
	db               *gorm.DB
	refreshTokenRepo repositories.RefreshTokenRepository
	interval         time.Duration
}

func NewTokenCleanupWorker(db *gorm.DB, refreshTokenRepo repositories.RefreshTokenRepository) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		db:               db,
		refreshTokenRepo: refreshTokenRepo,
		interval:         6 * time.Hour,
	}
}

// Start запускает фоновую чистку истекших refresh токенов
func (w *TokenCleanupWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *TokenCleanupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token cleanup worker stopped")
			return
		case <-ticker.C:
			deleted, err := w.refreshTokenRepo.DeleteExpired(w.db)
			if err != nil {
				logger.WorkerLog("token_cleanup", "delete_expired", err)
				continue
			}
			if deleted > 0 {
				logger.Info("Expired refresh tokens removed", "worker", "token_cleanup", "count", deleted)
			}
		}
	}
}

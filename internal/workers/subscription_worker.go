package workers

import (
	"context"
	"time"

	"feedbackbox_backend/internal/logger"
	"feedbackbox_backend/internal/models"

	"gorm.io/gorm"
)

// SubscriptionWorker downgrades accounts whose subscription lapsed.
// The Stripe webhook is the primary writer; this sweep catches users
// whose cancellation or failed payment outlived the paid period while
// a webhook was missed.
type SubscriptionWorker struct {
	db       *gorm.DB
	interval time.Duration
}

func NewSubscriptionWorker(db *gorm.DB) *SubscriptionWorker {
	return &SubscriptionWorker{
		db:       db,
		interval: 6 * time.Hour,
	}
}

func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.sweepLapsedSubscriptions(ctx)
}

func (w *SubscriptionWorker) sweepLapsedSubscriptions(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// One pass at startup so a long-stopped deployment catches up
	// before the first tick.
	w.sweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Subscription worker stopped")
			return
		case <-ticker.C:
			w.sweepOnce(ctx)
		}
	}
}

func (w *SubscriptionWorker) sweepOnce(ctx context.Context) {
	now := time.Now().UTC()
	result := w.db.WithContext(ctx).Model(&models.User{}).
		Where("plan = ?", models.PlanPro).
		Where("subscription_status IN ?", []models.SubscriptionStatus{
			models.SubscriptionCanceled,
			models.SubscriptionPastDue,
		}).
		Where("current_period_end IS NOT NULL AND current_period_end < ?", now).
		Updates(map[string]interface{}{
			"plan":       models.PlanFree,
			"updated_at": now,
		})
	if result.Error != nil {
		logger.Error("Error sweeping lapsed subscriptions", "error", result.Error)
	} else if result.RowsAffected > 0 {
		logger.Info("Downgraded lapsed subscriptions", "count", result.RowsAffected)
	}
}

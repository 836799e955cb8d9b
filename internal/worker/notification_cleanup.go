package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/careops/clinic-api/pkg/metrics"
)

// notificationPurger is the slice of the notification store the worker needs.
type notificationPurger interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// NotificationCleanupWorker purges read notifications past the retention
// window. Unread rows are never touched, whatever their age.
type NotificationCleanupWorker struct {
	repo            notificationPurger
	retentionDays   int
	cleanupInterval time.Duration
	logger          *zerolog.Logger
	metrics         *metrics.Metrics
}

func NewNotificationCleanupWorker(repo notificationPurger, retentionDays int, cleanupInterval time.Duration, logger *zerolog.Logger, m *metrics.Metrics) *NotificationCleanupWorker {
	return &NotificationCleanupWorker{
		repo:            repo,
		retentionDays:   retentionDays,
		cleanupInterval: cleanupInterval,
		logger:          logger,
		metrics:         m,
	}
}

func (w *NotificationCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	w.logger.Info().
		Int("retention_days", w.retentionDays).
		Dur("interval", w.cleanupInterval).
		Msg("notification cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("notification cleanup worker stopping")
			return
		case <-ticker.C:
			if err := w.cleanup(ctx); err != nil {
				w.logger.Error().Err(err).Msg("notification cleanup failed")
			}
		}
	}
}

func (w *NotificationCleanupWorker) cleanup(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -w.retentionDays)

	start := time.Now()
	rows, err := w.repo.DeleteReadBefore(ctx, cutoff)
	if w.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		w.metrics.DatabaseOperations.WithLabelValues("purge_read_notifications", status).Inc()
		w.metrics.DatabaseLatency.WithLabelValues("purge_read_notifications").Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return fmt.Errorf("failed to purge read notifications: %w", err)
	}

	if w.metrics != nil {
		w.metrics.NotificationsPurged.Add(float64(rows))
	}
	w.logger.Info().Int64("purged", rows).Time("cutoff", cutoff).Msg("purged read notifications")
	return nil
}

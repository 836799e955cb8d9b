package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	"github.com/careops/clinic-api/pkg/metrics"
)

// ErrTimeout is returned when the store does not answer within the
// configured window.
var ErrTimeout = errors.New("notification store timed out")

// Publisher is the slice of the message broker the service needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

type Config struct {
	// CallTimeout bounds every store call. Zero means 5s.
	CallTimeout time.Duration
	// FanoutChannel receives a NotificationEvent per created row. Empty
	// disables fanout.
	FanoutChannel string
}

type Service struct {
	repo    repository.NotificationRepository
	broker  Publisher
	cfg     Config
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

// NewService builds the notification service. broker and metrics may be nil.
func NewService(repo repository.NotificationRepository, broker Publisher, cfg Config, logger *zerolog.Logger, m *metrics.Metrics) *Service {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 5 * time.Second
	}
	return &Service{
		repo:    repo,
		broker:  broker,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// withTimeout bounds a store call and maps deadline expiry onto ErrTimeout.
func (s *Service) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// Create inserts the notification row and fans it out to the broker. Fanout
// failure is logged, never surfaced; the row is the source of truth.
func (s *Service) Create(ctx context.Context, n *model.Notification) error {
	if n.Title == "" {
		return fmt.Errorf("title is required")
	}
	if n.Message == "" {
		return fmt.Errorf("message is required")
	}
	if n.Type == "" {
		n.Type = model.NotificationTypeInfo
	}

	err := s.withTimeout(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, n)
	})
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if s.metrics != nil {
		s.metrics.NotificationsCreated.Inc()
	}

	if s.broker != nil && s.cfg.FanoutChannel != "" {
		event := &model.NotificationEvent{
			ID:        n.ID,
			StaffID:   n.StaffID,
			Title:     n.Title,
			Type:      n.Type,
			CreatedAt: n.CreatedAt,
		}
		if err := s.broker.Publish(ctx, s.cfg.FanoutChannel, event); err != nil {
			s.logger.Warn().Err(err).Str("notification_id", n.ID.String()).Msg("fanout publish failed")
		}
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var n *model.Notification
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// List returns the notifications visible to staffID: their own rows plus
// broadcast rows. A nil staffID lists the broadcast channel only.
func (s *Service) List(ctx context.Context, staffID *uuid.UUID, unreadOnly bool) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		notifications, err = s.repo.List(ctx, staffID, unreadOnly)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *Service) CountUnread(ctx context.Context, staffID *uuid.UUID) (int, error) {
	var count int
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		count, err = s.repo.CountUnread(ctx, staffID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips the read flag. Marking an already read row again succeeds.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		return s.repo.MarkRead(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, staffID *uuid.UUID) error {
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		return s.repo.MarkAllRead(ctx, staffID)
	})
	if err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// DeleteRead removes every read notification visible to staffID and reports
// how many were removed.
func (s *Service) DeleteRead(ctx context.Context, staffID *uuid.UUID) (int64, error) {
	var deleted int64
	err := s.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.repo.DeleteRead(ctx, staffID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete read notifications: %w", err)
	}
	return deleted, nil
}

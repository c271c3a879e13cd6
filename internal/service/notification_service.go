package service

import (
	"context"
	"fmt"
	"time"

	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"
	"provider-settlement/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NotificationServiceImpl implements ports.NotificationService and
// ports.Notifier. Emitted notifications are persisted and then published on
// the message channel; both legs are best-effort and never fail the caller.
type NotificationServiceImpl struct {
	repo      ports.NotificationRepository
	publisher ports.NotificationPublisher
	log       zerolog.Logger
}

// NewNotificationService creates a new NotificationServiceImpl.
// publisher may be nil, in which case notifications are only persisted.
func NewNotificationService(
	repo ports.NotificationRepository,
	publisher ports.NotificationPublisher,
	log zerolog.Logger,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Emit stores and publishes a notification. Failures are logged and swallowed.
func (s *NotificationServiceImpl) Emit(ctx context.Context, accountID uuid.UUID, title, message, category, link string) {
	n := &domain.Notification{
		ID:        uuid.New(),
		AccountID: accountID,
		Title:     title,
		Message:   message,
		Category:  category,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warn().Err(err).
			Str("account_id", accountID.String()).
			Str("category", category).
			Msg("failed to persist notification")
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, n); err != nil {
			s.log.Warn().Err(err).
				Str("account_id", accountID.String()).
				Str("category", category).
				Msg("failed to publish notification")
		}
	}
}

// ListByAccount returns an account's notifications, newest first.
func (s *NotificationServiceImpl) ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]domain.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	notifications, total, err := s.repo.ListByAccount(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list notifications: %w", err))
	}
	return notifications, total, nil
}

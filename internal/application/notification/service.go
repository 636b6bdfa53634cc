package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yatraone/transit-api/internal/domain"
	"github.com/yatraone/transit-api/internal/pkg/id"
)

type store interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) error
}

type publisher interface {
	Publish(ctx context.Context, userID, title, message string) error
}

type Service interface {
	Push(ctx context.Context, userID, title, message string) error
	ListUnread(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error)
}

type service struct {
	repo      store
	publisher publisher
	now       func() time.Time
}

// NewService builds the notification service. pub may be nil, in which case
// notifications are only stored.
func NewService(repo store, pub publisher) Service {
	return &service{repo: repo, publisher: pub, now: time.Now}
}

// Push stores the notification and fans it out to the push topic. A publish
// failure is logged; the stored record is what clients read back.
func (s *service) Push(ctx context.Context, userID, title, message string) error {
	now := s.now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, userID, title, message); err != nil {
			slog.Warn("push publish failed", "user_id", userID, "err", err)
		}
	}
	return nil
}

func (s *service) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, userID string) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, fmt.Errorf("notification %s: %w", notificationID, domain.ErrForbidden)
	}
	if err := s.repo.MarkAsRead(ctx, notificationID); err != nil {
		return nil, err
	}
	n.Read = true
	n.UpdatedAt = s.now().UTC()
	return n, nil
}

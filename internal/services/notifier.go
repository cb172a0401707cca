package services

import (
	"context"

	"github.com/MohdZaidRapid/BooksBackend/internal/domain"
	"github.com/MohdZaidRapid/BooksBackend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transport event names pushed through the connection registry.
const (
	EventReceiveMessage  = "receiveMessage"
	EventNewNotification = "newNotification"
)

// Pusher is the slice of the connection registry the services need:
// best-effort fan-out to whoever is connected right now.
type Pusher interface {
	Send(userID uuid.UUID, event string, payload interface{}) int
}

// NotificationFanout persists a notification for any cross-user event and
// then attempts live delivery. The persisted record is the durability
// guarantee; the push is a latency optimization and its failure is
// swallowed and logged.
type NotificationFanout struct {
	repo   repository.NotificationRepository
	pusher Pusher
	logger *zap.Logger
}

func NewNotificationFanout(repo repository.NotificationRepository, pusher Pusher, logger *zap.Logger) *NotificationFanout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationFanout{
		repo:   repo,
		pusher: pusher,
		logger: logger.With(zap.String("component", "notifier")),
	}
}

type NotifyInput struct {
	ReceiverID uuid.UUID
	Type       domain.NotificationType
	Content    string
	Link       string
	SenderID   uuid.NullUUID
}

// Notify persists first, then pushes. An offline recipient is expected:
// the record stays queryable and no error is raised.
func (s *NotificationFanout) Notify(ctx context.Context, in NotifyInput) (domain.Notification, error) {
	n := domain.Notification{
		ID:         uuid.New(),
		ReceiverID: in.ReceiverID,
		Type:       in.Type,
		Content:    in.Content,
		Link:       in.Link,
		SenderID:   in.SenderID,
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		return domain.Notification{}, err
	}

	reached := s.pusher.Send(n.ReceiverID, EventNewNotification, n)
	if reached == 0 {
		s.logger.Debug("recipient offline, notification persisted only",
			zap.String("receiver_id", n.ReceiverID.String()),
			zap.String("type", string(n.Type)))
	}
	return n, nil
}

func (s *NotificationFanout) List(ctx context.Context, receiverID uuid.UUID, unreadOnly bool, limit int) ([]domain.Notification, error) {
	return s.repo.ListForReceiver(ctx, receiverID, unreadOnly, limit)
}

func (s *NotificationFanout) MarkRead(ctx context.Context, id, receiverID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, receiverID)
}

func (s *NotificationFanout) MarkAllRead(ctx context.Context, receiverID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, receiverID)
}

func (s *NotificationFanout) MarkReadByLink(ctx context.Context, receiverID uuid.UUID, link string) error {
	return s.repo.MarkReadByLink(ctx, receiverID, link)
}

func (s *NotificationFanout) UnreadCount(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	return s.repo.UnreadCount(ctx, receiverID)
}

func (s *NotificationFanout) UnreadGroupedBySender(ctx context.Context, receiverID uuid.UUID) ([]domain.SenderDigest, error) {
	return s.repo.UnreadGroupedBySender(ctx, receiverID)
}

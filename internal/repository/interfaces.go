package repository

import (
	"context"

	"github.com/MohdZaidRapid/BooksBackend/internal/domain"

	"github.com/google/uuid"
)

// ListingQuery describes one cached listing-query shape. The same values
// feed both the SQL built here and the cache key derivation, so two
// requests with equal shapes always hit the same key.
type ListingQuery struct {
	Filters  map[string]string
	Sort     string
	Page     int
	PageSize int
}

type BookRepository interface {
	Create(ctx context.Context, b *domain.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error)
	Update(ctx context.Context, b domain.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, q ListingQuery) ([]domain.Book, error)
}

type ConversationRepository interface {
	Create(ctx context.Context, c *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Conversation, error)
	// FindByParticipantsAndBook matches the unordered participant pair.
	FindByParticipantsAndBook(ctx context.Context, a, b, bookID uuid.UUID) (domain.Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
}

type MessageRepository interface {
	// Create inserts the message and refreshes the parent conversation's
	// summary in one transaction, so a reader of the conversation list
	// never observes a summary behind the newest persisted message.
	Create(ctx context.Context, m *domain.Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListForReceiver(ctx context.Context, receiverID uuid.UUID, unreadOnly bool, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, receiverID uuid.UUID) error
	MarkAllRead(ctx context.Context, receiverID uuid.UUID) error
	MarkReadByLink(ctx context.Context, receiverID uuid.UUID, link string) error
	UnreadCount(ctx context.Context, receiverID uuid.UUID) (int64, error)
	UnreadGroupedBySender(ctx context.Context, receiverID uuid.UUID) ([]domain.SenderDigest, error)
}

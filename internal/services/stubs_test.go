package services

import (
	"context"
	"sync"
	"time"

	"github.com/MohdZaidRapid/BooksBackend/internal/domain"
	"github.com/MohdZaidRapid/BooksBackend/internal/repository"
	books_errors "github.com/MohdZaidRapid/BooksBackend/pkg/errors"

	"github.com/google/uuid"
)

// stubPusher records every send and reports configured reach counts.
type stubPusher struct {
	mu    sync.Mutex
	sends []stubSend
	// online users; sends to anyone else report zero handles reached
	online map[uuid.UUID]int
}

type stubSend struct {
	userID  uuid.UUID
	event   string
	payload interface{}
}

func newStubPusher(online ...uuid.UUID) *stubPusher {
	p := &stubPusher{online: make(map[uuid.UUID]int)}
	for _, id := range online {
		p.online[id] = 1
	}
	return p
}

func (p *stubPusher) Send(userID uuid.UUID, event string, payload interface{}) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sends = append(p.sends, stubSend{userID: userID, event: event, payload: payload})
	return p.online[userID]
}

func (p *stubPusher) sendsTo(userID uuid.UUID, event string) []stubSend {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []stubSend
	for _, s := range p.sends {
		if s.userID == userID && s.event == event {
			out = append(out, s)
		}
	}
	return out
}

// stubBookRepo serves books from a map.
type stubBookRepo struct {
	mu      sync.Mutex
	books   map[uuid.UUID]domain.Book
	queries int
	result  []domain.Book
}

func newStubBookRepo(books ...domain.Book) *stubBookRepo {
	r := &stubBookRepo{books: make(map[uuid.UUID]domain.Book)}
	for _, b := range books {
		r.books[b.ID] = b
	}
	return r
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.books[b.ID] = *b
	return nil
}

func (r *stubBookRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return domain.Book{}, books_errors.ErrNotFound
	}
	return b, nil
}

func (r *stubBookRepo) Update(_ context.Context, b domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ID]; !ok {
		return books_errors.ErrNotFound
	}
	r.books[b.ID] = b
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return books_errors.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *stubBookRepo) Query(_ context.Context, _ repository.ListingQuery) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
	return r.result, nil
}

func (r *stubBookRepo) queryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queries
}

// stubConversationRepo keeps conversations in memory and implements the
// unordered-pair lookup.
type stubConversationRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]domain.Conversation
}

func newStubConversationRepo() *stubConversationRepo {
	return &stubConversationRepo{conversations: make(map[uuid.UUID]domain.Conversation)}
}

func (r *stubConversationRepo) Create(_ context.Context, c *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.conversations {
		if existing.BookID == c.BookID && existing.InitiatorID == c.InitiatorID && existing.OwnerID == c.OwnerID {
			return books_errors.ErrAlreadyExists
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.conversations[c.ID] = *c
	return nil
}

func (r *stubConversationRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return domain.Conversation{}, books_errors.ErrNotFound
	}
	return c, nil
}

func (r *stubConversationRepo) FindByParticipantsAndBook(_ context.Context, a, b, bookID uuid.UUID) (domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conversations {
		if c.BookID != bookID {
			continue
		}
		if (c.InitiatorID == a && c.OwnerID == b) || (c.InitiatorID == b && c.OwnerID == a) {
			return c, nil
		}
	}
	return domain.Conversation{}, books_errors.ErrNotFound
}

func (r *stubConversationRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Conversation
	for _, c := range r.conversations {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubConversationRepo) updateSummary(id uuid.UUID, summary string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.conversations[id]; ok {
		c.LastMessage = summary
		c.UpdatedAt = at
		r.conversations[id] = c
	}
}

// stubMessageRepo mirrors the production repo's contract: Create also
// refreshes the conversation summary.
type stubMessageRepo struct {
	mu        sync.Mutex
	messages  []domain.Message
	conversas *stubConversationRepo
	createErr error
	seq       int64
}

func newStubMessageRepo(conversations *stubConversationRepo) *stubMessageRepo {
	return &stubMessageRepo{conversas: conversations}
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	if r.createErr != nil {
		err := r.createErr
		r.mu.Unlock()
		return err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.seq++
	m.Seq = r.seq
	r.messages = append(r.messages, *m)
	r.mu.Unlock()

	if r.conversas != nil {
		r.conversas.updateSummary(m.ConversationID, m.Body, m.CreatedAt)
	}
	return nil
}

func (r *stubMessageRepo) ListByConversation(_ context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

// stubNotificationRepo keeps notifications in memory.
type stubNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
	createErr     error
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *stubNotificationRepo) ListForReceiver(_ context.Context, receiverID uuid.UUID, unreadOnly bool, limit int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.ReceiverID != receiverID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id, receiverID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id && n.ReceiverID == receiverID {
			r.notifications[i].Read = true
		}
	}
	return nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, receiverID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ReceiverID == receiverID {
			r.notifications[i].Read = true
		}
	}
	return nil
}

func (r *stubNotificationRepo) MarkReadByLink(_ context.Context, receiverID uuid.UUID, link string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ReceiverID == receiverID && n.Link == link {
			r.notifications[i].Read = true
		}
	}
	return nil
}

func (r *stubNotificationRepo) UnreadCount(_ context.Context, receiverID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.ReceiverID == receiverID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) UnreadGroupedBySender(_ context.Context, receiverID uuid.UUID) ([]domain.SenderDigest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bySender := make(map[uuid.NullUUID]*domain.SenderDigest)
	for _, n := range r.notifications {
		if n.ReceiverID != receiverID || n.Read {
			continue
		}
		d, ok := bySender[n.SenderID]
		if !ok {
			d = &domain.SenderDigest{SenderID: n.SenderID}
			bySender[n.SenderID] = d
		}
		d.Count++
		if n.CreatedAt.After(d.MostRecentAt) {
			d.MostRecentAt = n.CreatedAt
			d.MostRecentContent = n.Content
			d.MostRecentLink = n.Link
		}
	}
	out := make([]domain.SenderDigest, 0, len(bySender))
	for _, d := range bySender {
		out = append(out, *d)
	}
	return out, nil
}

func (r *stubNotificationRepo) all() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.notifications...)
}

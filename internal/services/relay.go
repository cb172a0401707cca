package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/MohdZaidRapid/BooksBackend/internal/commands"
	"github.com/MohdZaidRapid/BooksBackend/internal/domain"
	"github.com/MohdZaidRapid/BooksBackend/internal/repository"
	books_errors "github.com/MohdZaidRapid/BooksBackend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InitialSummary seeds a freshly started conversation's list-view summary.
const InitialSummary = "I want to buy this book"

// MessagePayload is what online participants receive on receiveMessage.
type MessagePayload struct {
	domain.Message
	SenderName string `json:"sender_name,omitempty"`
}

// MessageRelay accepts inbound chat events, persists them, and pushes to
// connected participants. Persistence and push are strictly separated: no
// registry state is held across a store call.
type MessageRelay struct {
	books         repository.BookRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	fanout        *NotificationFanout
	pusher        Pusher
	bus           *commands.Bus
	logger        *zap.Logger
}

func NewMessageRelay(
	books repository.BookRepository,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	fanout *NotificationFanout,
	pusher Pusher,
	bus *commands.Bus,
	logger *zap.Logger,
) *MessageRelay {
	if bus == nil {
		bus = commands.NewBus()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MessageRelay{
		books:         books,
		conversations: conversations,
		messages:      messages,
		fanout:        fanout,
		pusher:        pusher,
		bus:           bus,
		logger:        logger.With(zap.String("component", "relay")),
	}
	s.registerHandlers()
	return s
}

func (s *MessageRelay) registerHandlers() {
	s.bus.Register("message.send", commands.HandlerFunc(func(ctx context.Context, cmd commands.Command) (commands.Result, error) {
		typed, ok := cmd.(commands.SendMessageCommand)
		if !ok {
			return commands.Result{}, books_errors.ErrInvalidInput
		}
		msg, err := s.executePost(ctx, typed)
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{AggregateID: msg.ID.String(), Payload: msg}, nil
	}))
}

func (s *MessageRelay) Bus() *commands.Bus {
	return s.bus
}

// StartConversation resolves the listing's owner as the counterpart and
// returns the existing conversation for the (pair, book) tuple if there is
// one. Starting twice, in either participant order, yields the same
// conversation.
func (s *MessageRelay) StartConversation(ctx context.Context, initiatorID, bookID uuid.UUID) (domain.Conversation, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return domain.Conversation{}, err
	}
	if book.ListedBy == initiatorID {
		return domain.Conversation{}, books_errors.ErrInvalidOperation
	}

	existing, err := s.conversations.FindByParticipantsAndBook(ctx, initiatorID, book.ListedBy, bookID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, books_errors.ErrNotFound) {
		return domain.Conversation{}, err
	}

	conv := domain.Conversation{
		ID:          uuid.New(),
		BookID:      bookID,
		InitiatorID: initiatorID,
		OwnerID:     book.ListedBy,
		LastMessage: InitialSummary,
	}
	if err := s.conversations.Create(ctx, &conv); err != nil {
		// A concurrent start for the same pair and book can win the
		// insert; the unique pair index reports it and the winner's row
		// is the conversation to return.
		if errors.Is(err, books_errors.ErrAlreadyExists) {
			return s.conversations.FindByParticipantsAndBook(ctx, initiatorID, book.ListedBy, bookID)
		}
		return domain.Conversation{}, err
	}

	if s.fanout != nil {
		_, err := s.fanout.Notify(ctx, NotifyInput{
			ReceiverID: book.ListedBy,
			Type:       domain.NotificationConversation,
			Content:    fmt.Sprintf("Someone is interested in your book %q.", book.Title),
			Link:       "/chats/" + conv.ID.String(),
			SenderID:   uuid.NullUUID{UUID: initiatorID, Valid: true},
		})
		if err != nil {
			// The conversation is already durable; a lost notification
			// must not fail the start.
			s.logger.Warn("conversation notification failed",
				zap.String("conversation_id", conv.ID.String()), zap.Error(err))
		}
	}
	return conv, nil
}

// PostMessage persists the message, updates the conversation summary, and
// pushes receiveMessage to the other participants best-effort.
func (s *MessageRelay) PostMessage(ctx context.Context, conversationID, senderID uuid.UUID, body string) (domain.Message, error) {
	return s.Post(ctx, commands.SendMessageCommand{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
	})
}

// Post runs a send-message command through the bus.
func (s *MessageRelay) Post(ctx context.Context, cmd commands.SendMessageCommand) (domain.Message, error) {
	res, err := s.bus.Execute(ctx, cmd)
	if err != nil {
		return domain.Message{}, err
	}
	msg, ok := res.Payload.(domain.Message)
	if !ok {
		return domain.Message{}, books_errors.ErrInvalidInput
	}
	return msg, nil
}

func (s *MessageRelay) executePost(ctx context.Context, cmd commands.SendMessageCommand) (domain.Message, error) {
	conv, err := s.conversations.GetByID(ctx, cmd.ConversationID)
	if err != nil {
		return domain.Message{}, err
	}
	if !conv.HasParticipant(cmd.SenderID) {
		return domain.Message{}, books_errors.ErrForbidden
	}

	msg := domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       cmd.SenderID,
		Body:           cmd.Body,
	}
	if err := s.messages.Create(ctx, &msg); err != nil {
		return domain.Message{}, err
	}

	senderName := cmd.SenderName
	if senderName == "" {
		senderName = "Someone"
	}

	for _, recipient := range conv.OtherParticipants(cmd.SenderID) {
		s.pusher.Send(recipient, EventReceiveMessage, MessagePayload{
			Message:    msg,
			SenderName: cmd.SenderName,
		})

		if s.fanout == nil {
			continue
		}
		if _, err := s.fanout.Notify(ctx, NotifyInput{
			ReceiverID: recipient,
			Type:       domain.NotificationMessage,
			Content:    fmt.Sprintf("%s sent you a message.", senderName),
			Link:       "/chats/" + conv.ID.String(),
			SenderID:   uuid.NullUUID{UUID: cmd.SenderID, Valid: true},
		}); err != nil {
			// Message is already durable; fan-out failure stays local.
			s.logger.Warn("message notification failed",
				zap.String("conversation_id", conv.ID.String()),
				zap.String("receiver_id", recipient.String()),
				zap.Error(err))
		}
	}
	return msg, nil
}

// ListMessages returns the conversation's messages oldest first.
func (s *MessageRelay) ListMessages(ctx context.Context, conversationID, requesterID uuid.UUID) ([]domain.Message, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(requesterID) {
		return nil, books_errors.ErrForbidden
	}
	return s.messages.ListByConversation(ctx, conversationID)
}

// ListConversations returns the user's conversations, most recently
// active first.
func (s *MessageRelay) ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	return s.conversations.ListForUser(ctx, userID)
}

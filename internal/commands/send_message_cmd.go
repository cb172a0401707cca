package commands

import (
	"strings"

	books_errors "github.com/MohdZaidRapid/BooksBackend/pkg/errors"

	"github.com/google/uuid"
)

// SendMessageCommand posts one chat message into a conversation.
type SendMessageCommand struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	SenderName     string    `json:"sender_name,omitempty"`
	Body           string    `json:"body"`
}

func (c SendMessageCommand) CommandType() string { return "message.send" }

func (c SendMessageCommand) Validate() error {
	if c.ConversationID == uuid.Nil {
		return books_errors.ErrInvalidInput
	}
	if c.SenderID == uuid.Nil {
		return books_errors.ErrInvalidInput
	}
	if strings.TrimSpace(c.Body) == "" {
		return books_errors.ErrInvalidInput
	}
	return nil
}

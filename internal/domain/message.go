package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is immutable once created. Ordering within a conversation is by
// CreatedAt, ties broken by Seq (assigned by the store's identity column).
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;index" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid" json:"sender_id"`
	Body           string    `json:"body"`
	Seq            int64     `gorm:"autoIncrement" json:"seq"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

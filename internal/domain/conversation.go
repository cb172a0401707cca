package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a pair of participants talking about one listing.
// It is created lazily on first contact and never duplicated for the
// same (participants, book) tuple. LastMessage is a denormalized summary
// refreshed with every message, which keeps list views to a single query.
type Conversation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BookID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_conversations_pair" json:"book_id"`
	InitiatorID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_conversations_pair" json:"initiator_id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_conversations_pair" json:"owner_id"`
	LastMessage string    `json:"last_message"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// HasParticipant reports whether userID is one of the two participants.
func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.InitiatorID == userID || c.OwnerID == userID
}

// OtherParticipants returns every participant except userID. A pair
// conversation has at most one, but callers fan out over the slice so
// the shape survives a future move to group conversations.
func (c Conversation) OtherParticipants(userID uuid.UUID) []uuid.UUID {
	var others []uuid.UUID
	if c.InitiatorID != userID {
		others = append(others, c.InitiatorID)
	}
	if c.OwnerID != userID {
		others = append(others, c.OwnerID)
	}
	return others
}

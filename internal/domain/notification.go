package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType enumerates the producer events that create notifications.
type NotificationType string

const (
	NotificationMessage      NotificationType = "message"
	NotificationInterest     NotificationType = "interest"
	NotificationModeration   NotificationType = "moderation"
	NotificationListing      NotificationType = "listing"
	NotificationConversation NotificationType = "conversation"
)

// Notification is persisted before any live push is attempted; the record
// is the durability guarantee, the push only a latency optimization.
// Mutated only by read-state transitions, never deleted by normal flow.
type Notification struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	ReceiverID uuid.UUID        `gorm:"type:uuid;index" json:"receiver_id"`
	Type       NotificationType `json:"type"`
	Content    string           `json:"content"`
	Link       string           `json:"link,omitempty"`
	Read       bool             `gorm:"default:false" json:"read"`
	SenderID   uuid.NullUUID    `gorm:"type:uuid" json:"sender_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// SenderDigest is one row of the unread-by-sender aggregation that drives
// inbox-style views without fetching raw notifications.
type SenderDigest struct {
	SenderID          uuid.NullUUID `json:"sender_id"`
	Count             int64         `json:"count"`
	MostRecentContent string        `json:"most_recent_content"`
	MostRecentLink    string        `json:"most_recent_link,omitempty"`
	MostRecentAt      time.Time     `json:"most_recent_at"`
}

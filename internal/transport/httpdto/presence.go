package httpdto

import "github.com/google/uuid"

// PresenceStatus is the body for GET /v1/presence/:id
type PresenceStatus struct {
	UserID uuid.UUID `json:"user_id"`
	Online bool      `json:"online"`
}

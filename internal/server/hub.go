package server

import (
	"github.com/MohdZaidRapid/BooksBackend/internal/registry"
	"github.com/MohdZaidRapid/BooksBackend/internal/services"

	"github.com/google/uuid"
)

// Hub wires connection lifecycle events into the registry. Presence state
// itself lives in the registry so the relay and the notifier can be tested
// against it without any transport.
type Hub struct {
	registry *registry.Registry
	relay    *services.MessageRelay
	logger   *WebSocketLogger
}

func NewHub(reg *registry.Registry, relay *services.MessageRelay) *Hub {
	return &Hub{
		registry: reg,
		relay:    relay,
		logger:   NewWebSocketLogger(),
	}
}

// HandleJoin binds the connection to a user identity and makes it
// reachable. Joining again under the same identity is idempotent.
func (h *Hub) HandleJoin(c *Client, userID uuid.UUID) {
	c.userID = userID
	h.registry.Register(userID, c)
	h.logger.Info("client joined", userID, c.clientID)
}

// HandleDisconnect detaches the connection wherever it is registered.
// A connection that never joined unregisters as a no-op.
func (h *Hub) HandleDisconnect(c *Client) {
	h.registry.Unregister(c)
	c.close()
	h.logger.Info("client disconnected", c.userID, c.clientID)
}

func (h *Hub) Registry() *registry.Registry {
	return h.registry
}

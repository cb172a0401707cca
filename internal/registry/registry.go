// Package registry tracks which users currently hold live connections and
// fans events out to them. It is the only mutable state shared across
// connection lifecycles; everything behind the mutex is map bookkeeping,
// never I/O, so no persistence call can stall presence for unrelated users.
package registry

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handle is one live transport session. Push must not block: transports
// back it with a buffered queue and report failure when the queue is full
// or the session is gone.
type Handle interface {
	Key() string
	Push(data []byte) error
}

// Envelope is the wire frame for every outbound event.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Registry owns the user → handles relation. State is in-memory and
// single-process; a restart loses it and clients simply redial.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[string]Handle
	owners  map[string]uuid.UUID
	logger  *zap.Logger
}

func New(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		clients: make(map[uuid.UUID]map[string]Handle),
		owners:  make(map[string]uuid.UUID),
		logger:  logger.With(zap.String("component", "registry")),
	}
}

// Register adds the handle to the user's connection set. Idempotent for a
// handle already present; a handle moving between users is detached from
// the old set first so it never appears in two sets.
func (r *Registry) Register(userID uuid.UUID, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.owners[h.Key()]; ok {
		if prev == userID {
			return
		}
		r.detach(prev, h.Key())
	}

	if r.clients[userID] == nil {
		r.clients[userID] = make(map[string]Handle)
	}
	r.clients[userID][h.Key()] = h
	r.owners[h.Key()] = userID

	r.logger.Info("handle registered",
		zap.String("user_id", userID.String()),
		zap.String("handle", h.Key()),
		zap.Int("connections", len(r.clients[userID])))
}

// Unregister removes the handle from whatever set contains it. Unknown
// handles are a no-op, not an error.
func (r *Registry) Unregister(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.owners[h.Key()]
	if !ok {
		return
	}
	r.detach(userID, h.Key())

	r.logger.Info("handle unregistered",
		zap.String("user_id", userID.String()),
		zap.String("handle", h.Key()))
}

// detach must be called with the write lock held.
func (r *Registry) detach(userID uuid.UUID, key string) {
	delete(r.owners, key)
	if set, ok := r.clients[userID]; ok {
		delete(set, key)
		if len(set) == 0 {
			delete(r.clients, userID)
		}
	}
}

// IsOnline is a point-in-time answer with no ordering guarantee relative
// to concurrent register/unregister calls.
func (r *Registry) IsOnline(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[userID]) > 0
}

// ListOnline returns a snapshot of all users with at least one connection.
func (r *Registry) ListOnline() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	online := make([]uuid.UUID, 0, len(r.clients))
	for userID := range r.clients {
		online = append(online, userID)
	}
	return online
}

// Send pushes an event to every handle the user has and returns the number
// of handles reached. Zero means offline, which is expected and never an
// error; one handle's failure never blocks delivery to the others.
func (r *Registry) Send(userID uuid.UUID, event string, payload interface{}) int {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		r.logger.Error("envelope marshal failed",
			zap.String("event", event), zap.Error(err))
		return 0
	}

	r.mu.RLock()
	handles := make([]Handle, 0, len(r.clients[userID]))
	for _, h := range r.clients[userID] {
		handles = append(handles, h)
	}
	r.mu.RUnlock()

	reached := 0
	for _, h := range handles {
		if err := h.Push(data); err != nil {
			r.logger.Warn("push failed",
				zap.String("user_id", userID.String()),
				zap.String("handle", h.Key()),
				zap.String("event", event),
				zap.Error(err))
			continue
		}
		reached++
	}
	return reached
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/MohdZaidRapid/BooksBackend/internal/commands"
	books_errors "github.com/MohdZaidRapid/BooksBackend/pkg/errors"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Client is one live WebSocket session: the Connection Handle the
// registry tracks. userID stays nil until the client joins.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	clientID string
	userID   uuid.UUID
	rooms    map[uuid.UUID]bool
	logger   *WebSocketLogger

	closeMu sync.RWMutex
	closed  bool
}

// inboundEvent is the frame clients send: an event name plus its payload.
type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// sendMessagePayload mirrors the wire shape existing clients emit.
// sender_id and receiver_id are accepted but ignored: the sender is the
// joined identity and recipients come from the conversation's participants.
type sendMessagePayload struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id,omitempty"`
	ReceiverID     uuid.UUID `json:"receiver_id,omitempty"`
	Content        string    `json:"content"`
	SenderName     string    `json:"sender_name,omitempty"`
}

func NewClient(hub *Hub, conn *websocket.Conn, logger *WebSocketLogger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		clientID: uuid.New().String(),
		rooms:    make(map[uuid.UUID]bool),
		logger:   logger,
	}
}

// Key identifies this handle inside the registry.
func (c *Client) Key() string {
	return c.clientID
}

// Push queues data for the write pump without blocking. A full buffer or a
// closed session reports delivery failure; the registry logs it and moves
// on to the user's other handles.
func (c *Client) Push(data []byte) error {
	c.closeMu.RLock()
	defer c.closeMu.RUnlock()
	if c.closed {
		return books_errors.ErrDeliveryFailed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return books_errors.ErrDeliveryFailed
	}
}

func (c *Client) close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) readPump() {
	defer func() {
		c.hub.HandleDisconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket unexpected close", c.userID, c.clientID, err)
			}
			break
		}

		message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))

		if err := c.handleEvent(message); err != nil {
			c.logger.Error("websocket handle event failed", c.userID, c.clientID, err)
		}
	}
}

func (c *Client) handleEvent(message []byte) error {
	var evt inboundEvent
	if err := json.Unmarshal(message, &evt); err != nil {
		return err
	}

	switch evt.Event {
	case "join":
		return c.handleJoin(evt.Data)
	case "joinRoom":
		return c.handleJoinRoom(evt.Data)
	case "sendMessage":
		return c.handleSendMessage(evt.Data)
	case "ping":
		return c.Push([]byte(`{"event":"pong"}`))
	default:
		c.logger.Warn("unknown event", c.userID, c.clientID)
		return nil
	}
}

func (c *Client) handleJoin(data json.RawMessage) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return err
	}
	c.hub.HandleJoin(c, userID)
	return nil
}

func (c *Client) handleJoinRoom(data json.RawMessage) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	conversationID, err := uuid.Parse(raw)
	if err != nil {
		return err
	}
	c.rooms[conversationID] = true
	c.logger.Info("joined room", c.userID, c.clientID)
	return nil
}

func (c *Client) handleSendMessage(data json.RawMessage) error {
	var payload sendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if c.userID == uuid.Nil {
		return books_errors.ErrUnauthorized
	}

	// The connection's joined identity is authoritative; a spoofed
	// sender_id in the payload is ignored.
	_, err := c.hub.relay.Post(context.Background(), commands.SendMessageCommand{
		ConversationID: payload.ConversationID,
		SenderID:       c.userID,
		SenderName:     payload.SenderName,
		Body:           payload.Content,
	})
	return err
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package server

import (
	"net/http"

	"github.com/MohdZaidRapid/BooksBackend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades HTTP to WebSocket
type WebSocketHandler struct {
	hub       *Hub
	jwtSecret string
	logger    *WebSocketLogger
}

func NewWebSocketHandler(hub *Hub, jwtSecret string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    NewWebSocketLogger(),
	}
}

// Handle upgrades the connection and starts the client pumps. A valid
// token joins the connection immediately; otherwise it stays anonymous
// until a join event arrives.
func (h *WebSocketHandler) Handle(c *gin.Context) {
	var userID uuid.UUID
	if token := c.Query("token"); token != "" {
		id, err := middleware.ParseUserToken(token, h.jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		userID = id
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", userID, "", err)
		return
	}

	client := NewClient(h.hub, conn, h.logger)

	if userID != uuid.Nil {
		h.hub.HandleJoin(client, userID)
	}

	go client.writePump()
	go client.readPump()
}

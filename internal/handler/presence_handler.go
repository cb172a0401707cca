package handler

import (
	"net/http"

	"github.com/MohdZaidRapid/BooksBackend/internal/registry"
	"github.com/MohdZaidRapid/BooksBackend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PresenceHandler struct {
	registry *registry.Registry
}

func NewPresenceHandler(reg *registry.Registry) *PresenceHandler {
	return &PresenceHandler{registry: reg}
}

// Status reports whether a user has at least one live connection.
// Point-in-time only; the answer can change before the response lands.
func (h *PresenceHandler) Status(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "INVALID_REQUEST"))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.PresenceStatus{
		UserID: userID,
		Online: h.registry.IsOnline(userID),
	}))
}

// ListOnline returns a snapshot of every user with a live connection.
func (h *PresenceHandler) ListOnline(c *gin.Context) {
	online := h.registry.ListOnline()
	if online == nil {
		online = []uuid.UUID{}
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(online))
}

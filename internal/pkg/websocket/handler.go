package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler upgrades chat connections and wires them into the hub
type Handler struct {
	hub    *Hub
	relay  ChatRelay
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, relay ChatRelay, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		relay:  relay,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Establish a WebSocket connection for real-time activity chat
// @Description Upgrades the HTTP connection to a WebSocket for the activity's chat room
// @Tags chat, websocket
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} gin.H "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} gin.H "Activity not found"
// @Router /activities/{id}/chat/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	// An unparseable ID is indistinguishable from a missing activity
	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Activity not found",
		})
		return
	}

	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in context",
		})
		return
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	// Validate before the upgrade so failures are still plain HTTP
	joinFrame, err := h.relay.JoinChat(c.Request.Context(), activityID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).
			Str("activityID", activityID.String()).
			Str("userID", userID.String()).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	// The connection outlives this handler once upgraded, so its context
	// cannot hang off the request's. It is cancelled when readPump exits.
	ctx, cancel := context.WithCancel(context.Background())

	client := &Client{
		hub:        h.hub,
		conn:       conn,
		send:       make(chan []byte, 256),
		userID:     userID,
		activityID: activityID,
		ctx:        ctx,
		cancel:     cancel,
		relay:      h.relay,
		logger:     h.logger,
	}
	client.hub.register <- client

	// The join announcement goes to everyone already in the room, not to
	// the connection that just arrived
	h.hub.BroadcastExcept(activityID, client, joinFrame)

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("activityID", activityID.String()).
		Str("userID", userID.String()).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}

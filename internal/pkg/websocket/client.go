package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

var newline = []byte{'\n'}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development, in production you should restrict this
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is a middleman between one websocket connection and the hub
type Client struct {
	hub *Hub

	// The WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound serialized frames
	send chan []byte

	userID     uuid.UUID
	activityID uuid.UUID

	// Connection lifecycle. Relay calls run under ctx so in-flight work is
	// abandoned once the peer goes away; cancel fires when readPump exits.
	ctx    context.Context
	cancel context.CancelFunc

	relay  ChatRelay
	logger zerolog.Logger
}

// sendFrame queues a frame for this client only. Used for error reporting
// back to the connection that caused the failure.
func (c *Client) sendFrame(frame *Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to marshal frame")
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump pumps inbound frames from the websocket connection through the
// relay and fans the results out to the rest of the room
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().
					Str("userID", c.userID.String()).
					Str("activityID", c.activityID.String()).
					Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).
					Str("userID", c.userID.String()).
					Str("activityID", c.activityID.String()).
					Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).
					Str("userID", c.userID.String()).
					Str("activityID", c.activityID.String()).
					Msg("WebSocket read error")
			}
			break
		}

		c.processInbound(raw)
	}
}

// processInbound validates one raw frame, persists it through the relay
// under the connection's context and fans the result out to the room
func (c *Client) processInbound(raw []byte) {
	var in inboundFrame
	if err := json.Unmarshal(raw, &in); err != nil || in.Type != "text" {
		c.sendFrame(&Frame{
			Type:       FrameTypeError,
			ActivityID: c.activityID,
			Content:    "malformed frame",
			Code:       "VAL_001",
			Timestamp:  time.Now().UTC(),
		})
		return
	}

	frame, err := c.relay.HandleMessage(c.ctx, c.activityID, c.userID, in.Content)
	if err != nil {
		// A bad lookup or a rejected message only affects this client
		c.sendFrame(&Frame{
			Type:       FrameTypeError,
			ActivityID: c.activityID,
			Content:    err.Error(),
			Code:       "RES_001",
			Timestamp:  time.Now().UTC(),
		})
		return
	}

	c.hub.BroadcastExcept(c.activityID, c, frame)
}

// writePump pumps frames from the hub to the websocket connection
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
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued frames
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

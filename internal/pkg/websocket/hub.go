package websocket

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meetapp/backend/internal/pkg/metrics"
)

// Hub maintains the set of active clients grouped by activity and fans
// frames out to them
type Hub struct {
	// Registered clients organized by activity ID
	rooms map[uuid.UUID]map[*Client]bool

	// Outbound frames waiting for fan-out
	broadcast chan *envelope

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to the rooms map
	mu sync.RWMutex

	metrics *metrics.Registry
	logger  zerolog.Logger
}

// envelope pairs a serialized frame with its routing information. A non-nil
// exclude keeps the frame away from the connection that produced it.
type envelope struct {
	activityID uuid.UUID
	exclude    *Client
	data       []byte
}

// NewHub creates a new Hub instance. metricsReg may be nil.
func NewHub(metricsReg *metrics.Registry, logger zerolog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan *envelope, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		metrics:    metricsReg,
		logger:     logger,
	}
}

// Run starts the hub, handling client registrations and frame fan-out
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case env := <-h.broadcast:
			h.fanOut(env)
		}
	}
}

// Broadcast fans a frame out to every client in the activity room
func (h *Hub) Broadcast(activityID uuid.UUID, frame *Frame) {
	h.enqueue(activityID, nil, frame)
}

// BroadcastExcept fans a frame out to every client in the activity room
// except the given one. This is how the sender of a message or a newly
// joined user stays out of its own notification.
func (h *Hub) BroadcastExcept(activityID uuid.UUID, except *Client, frame *Frame) {
	h.enqueue(activityID, except, frame)
}

// RoomSize reports how many clients are connected to an activity room
func (h *Hub) RoomSize(activityID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[activityID])
}

func (h *Hub) enqueue(activityID uuid.UUID, exclude *Client, frame *Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error().Err(err).
			Str("activityID", activityID.String()).
			Msg("Failed to marshal frame for broadcast")
		return
	}

	h.broadcast <- &envelope{activityID: activityID, exclude: exclude, data: data}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	activityID := client.activityID
	if _, ok := h.rooms[activityID]; !ok {
		h.rooms[activityID] = make(map[*Client]bool)
	}
	h.rooms[activityID][client] = true

	if h.metrics != nil {
		h.metrics.ChatConnectionsActive.Inc()
	}

	h.logger.Info().
		Str("activityID", activityID.String()).
		Str("userID", client.userID.String()).
		Msg("Chat client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	activityID := client.activityID
	if room, ok := h.rooms[activityID]; ok {
		if _, ok := room[client]; ok {
			delete(room, client)
			close(client.send)

			if len(room) == 0 {
				delete(h.rooms, activityID)
			}

			if h.metrics != nil {
				h.metrics.ChatConnectionsActive.Dec()
			}

			h.logger.Info().
				Str("activityID", activityID.String()).
				Str("userID", client.userID.String()).
				Msg("Chat client unregistered")
		}
	}
}

func (h *Hub) fanOut(env *envelope) {
	h.mu.RLock()

	room, ok := h.rooms[env.activityID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	var stale []*Client
	for client := range room {
		if client == env.exclude {
			continue
		}
		select {
		case client.send <- env.data:
		default:
			// Send buffer full; the peer is slow or gone
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.unregisterClient(client)
	}
}

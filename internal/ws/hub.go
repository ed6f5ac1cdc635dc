package ws

import (
	"encoding/json"
	"sync"

	"prediction_webapp/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var deliveries = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ws_deliveries_total",
		Help: "Messages handed to client send queues",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(deliveries)
}

// Hub maps room keys to the set of live connections addressed by them.
// Join, Leave and Emit are linearized by a single mutex: a connection
// present at the time of an Emit call receives that message at most once;
// a connection that joined strictly before an Emit cannot miss it.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join adds the connection to the room. Idempotent.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

// Leave removes the connection from the room. No-op if absent.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// LeaveAll removes the connection from every room it belongs to. Called
// on disconnect.
func (h *Hub) LeaveAll(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Emit delivers event+payload to every connection currently in the room.
// Fire-and-forget: a full send queue drops the message for that
// connection, nothing is queued for absent members.
func (h *Hub) Emit(room string, event string, payload map[string]any) {
	data, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		logger.Error("ws emit marshal failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		c.enqueue(data)
	}
}

// Broadcast delivers event+payload to every connection in every room,
// once per connection.
func (h *Hub) Broadcast(event string, payload map[string]any) {
	data, err := json.Marshal(Message{Event: event, Payload: payload})
	if err != nil {
		logger.Error("ws broadcast marshal failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[*Client]struct{})
	for _, members := range h.rooms {
		for c := range members {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			c.enqueue(data)
		}
	}
}

// RoomSize returns the current member count of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

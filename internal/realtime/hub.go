// Package realtime pushes board events to WebSocket subscribers.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/contactboard/backend/internal/metrics"
	"github.com/contactboard/backend/internal/model"
	"github.com/gorilla/websocket"
)

const (
	// EventRecentMessages carries the snapshot sent to a new subscriber.
	EventRecentMessages = "recent-messages"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// SnapshotSource supplies the newest messages for a fresh subscriber.
type SnapshotSource interface {
	Recent(ctx context.Context) ([]*model.Message, error)
}

// Frame is the JSON envelope of every event written to a subscriber.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub tracks connected subscribers and fans events out to them.
// Clients never send anything meaningful; inbound frames are discarded.
type Hub struct {
	upgrader websocket.Upgrader
	snapshot SnapshotSource

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a Hub that greets subscribers with a snapshot from src.
func NewHub(src SnapshotSource) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Public board: every origin may subscribe.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		snapshot: src,
		clients:  make(map[*client]struct{}),
	}
}

// ServeWS handles GET /ws.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		slog.Warn("websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), remote: r.RemoteAddr}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	slog.Info("subscriber connected", "remote_addr", c.remote)

	go c.writePump()
	go c.readPump()
	go h.sendSnapshot(context.WithoutCancel(r.Context()), c)
}

// Publish broadcasts one event to every subscriber without waiting for
// delivery. A subscriber that cannot keep up is disconnected.
func (h *Hub) Publish(event string, payload any) {
	b, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		slog.Error("encode event failed", "event", event, "error", err)
		return
	}
	metrics.RecordRealtimeEvent(event)

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.removeLocked(c)
			metrics.RecordDroppedClient()
			slog.Warn("subscriber dropped, send buffer full", "remote_addr", c.remote)
		}
	}
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

// sendSnapshot pushes the recent messages to c only. A failed fetch is
// logged and the subscriber stays connected without a snapshot.
func (h *Hub) sendSnapshot(ctx context.Context, c *client) {
	msgs, err := h.snapshot.Recent(ctx)
	if err != nil {
		slog.Error("fetch recent messages failed", "error", err, "remote_addr", c.remote)
		return
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}

	b, err := json.Marshal(Frame{Event: EventRecentMessages, Data: msgs})
	if err != nil {
		slog.Error("encode snapshot failed", "error", err)
		return
	}
	metrics.RecordRealtimeEvent(EventRecentMessages)

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- b:
	default:
		h.removeLocked(c)
		metrics.RecordDroppedClient()
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	metrics.SetRealtimeConnections(len(h.clients))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked deletes c and closes its send channel, which stops its
// writer. Safe to call more than once. h.mu must be held.
func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.SetRealtimeConnections(len(h.clients))
}

// Package events pushes named notifications to connected GUI clients over
// WebSocket. The shell publishes "chromium-progress" during installer runs.
package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Notification is the wire envelope for one named event.
type Notification struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

const (
	clientSendBuffer = 32
	writeTimeout     = 5 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans notifications out to every connected client. A client whose
// send buffer is full is dropped rather than blocking the publisher.
type Hub struct {
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			// The shell binds to localhost; the webview origin varies by
			// platform, so the origin check stays permissive.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: map[*client]struct{}{},
	}
}

// Publish sends one named event to all connected clients.
func (h *Hub) Publish(event string, payload any) {
	raw, err := json.Marshal(Notification{Event: event, Payload: payload})
	if err != nil {
		h.logger.Errorw("event_encode_failed", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	stale := []*client{}
	for c := range h.clients {
		select {
		case c.send <- raw:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.drop(c)
		h.logger.Warnw("event_client_dropped", "reason", "send buffer full")
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handle upgrades the request and streams notifications until the client
// disconnects.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("ws_upgrade_failed", "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientSendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	go h.readLoop(c)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.Handle(w, r) }

func (h *Hub) writeLoop(c *client) {
	for raw := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			h.drop(c)
			return
		}
	}
}

// readLoop discards inbound frames; its job is detecting disconnects.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

package main

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ─── WebSocket Hub ────────────────────────────────────────────────────────────

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub manages connected WebSocket clients and broadcasts to all of them.
type Hub struct {
	log     *slog.Logger
	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newHub(log *slog.Logger) *Hub {
	return &Hub{log: log, clients: make(map[*wsClient]struct{})}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	if _, exists := h.clients[c]; exists {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a text frame to all connected clients.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Slow client — drop the frame rather than block the loop
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWS upgrades the connection and pumps status frames until the client
// goes away.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 64)}
	h.register(client)
	h.log.Debug("ws client connected", "remote", conn.RemoteAddr())

	// Write pump
	go func() {
		defer conn.Close()
		for frame := range client.send {
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage, nil)
	}()

	// Read pump — consume frames to detect client disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(client)
	h.log.Debug("ws client disconnected", "remote", conn.RemoteAddr())
}

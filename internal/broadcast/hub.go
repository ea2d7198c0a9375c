// Package broadcast fans emissions out to WebSocket viewers.
//
// Each viewer watches one match. The Hub is an engine.Sink: the dispatcher
// publishes every emission to it and the hub forwards the emission to the
// viewers of that match.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
)

type message struct {
	matchID string
	data    []byte
}

// Hub maintains the set of active viewers and broadcasts to them.
//
// Thread-safety model:
//   - Publish, Serve, Register, Unregister: safe from any goroutine
//   - Run: must be called from exactly one goroutine
type Hub struct {
	upgrader websocket.Upgrader

	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a hub. checkOrigin decides which browser origins may
// connect; nil allows any.
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 1000),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	slog.Info("broadcast hub started")
	defer h.closeOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case m := <-h.broadcast:
			h.broadcastMessage(m)
		}
	}
}

// Publish implements engine.Sink. The emission is dropped, not queued
// unboundedly, when the hub is saturated.
func (h *Hub) Publish(_ context.Context, e engine.Emission) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling emission: %w", err)
	}
	select {
	case h.broadcast <- message{matchID: e.MatchID, data: data}:
		return nil
	case <-h.done:
		return nil
	default:
		slog.Warn("broadcast buffer full, dropping emission", "match_id", e.MatchID, "kind", e.Kind)
		return nil
	}
}

// Serve upgrades the request to a WebSocket watching matchID. If initial
// is non-nil it is sent before any live emission.
func (h *Hub) Serve(ctx context.Context, w http.ResponseWriter, r *http.Request, matchID string, initial *engine.Emission) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade: %w", err)
	}

	c := newClient(uuid.New().String(), matchID, conn, h)
	if initial != nil {
		data, err := json.Marshal(initial)
		if err != nil {
			conn.Close()
			return fmt.Errorf("marshaling initial snapshot: %w", err)
		}
		c.trySend(data)
	}

	if !h.Register(c) {
		conn.Close()
		return fmt.Errorf("broadcast hub is not running")
	}
	go c.writePump(ctx)
	go c.readPump()
	return nil
}

// Register adds a client. Returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. A no-op once the hub has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	slog.Debug("viewer connected", "client_id", c.ID, "match_id", c.MatchID, "total", len(h.clients))
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		slog.Debug("viewer disconnected", "client_id", c.ID, "total", len(h.clients))
	}
}

// broadcastMessage sends to every viewer of the match. Viewers too slow to
// keep up are disconnected.
func (h *Hub) broadcastMessage(m message) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.MatchID == m.matchID {
			clients = append(clients, c)
		}
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.trySend(m.data) {
			slog.Warn("viewer buffer full, disconnecting", "client_id", c.ID)
			go h.Unregister(c)
		}
	}
}

// shutdown closes all client connections.
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	slog.Info("broadcast hub stopping", "clients", len(h.clients))
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

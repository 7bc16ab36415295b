package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/topoviz/pkg/core/render"
)

const (
	clientBuffer      = 16
	keepAliveInterval = 30 * time.Second
)

type client struct {
	id     string
	events chan []byte
}

// Hub fans scenes out to server-sent-event subscribers. A subscriber
// that falls behind misses frames rather than stalling the frame loop.
type Hub struct {
	logger  *log.Logger
	current func() *render.Scene

	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

// NewHub returns an empty hub. current supplies the scene sent to each
// subscriber on connect; it may be nil.
func NewHub(logger *log.Logger, current func() *render.Scene) *Hub {
	return &Hub{logger: logger, current: current, clients: make(map[string]*client)}
}

func encodeEvent(sc *render.Scene) ([]byte, error) {
	data, err := json.Marshal(sc)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: scene\ndata: %s\n\n", data)), nil
}

// Broadcast sends sc to every subscriber.
func (h *Hub) Broadcast(sc *render.Scene) {
	msg, err := encodeEvent(sc)
	if err != nil {
		h.logger.Error("encode scene", "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.events <- msg:
		default:
			h.logger.Debug("stream client slow, frame dropped", "client", c.id)
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, c := range h.clients {
		close(c.events)
		delete(h.clients, id)
	}
}

func (h *Hub) register() (*client, bool) {
	c := &client{id: uuid.NewString(), events: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	h.clients[c.id] = c
	return c, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.events)
	}
}

// ServeHTTP streams scenes until the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	c, ok := h.register()
	if !ok {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.unregister(c)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, ": connected %s\n\n", c.id)
	if h.current != nil {
		if msg, err := encodeEvent(h.current()); err == nil {
			_, _ = w.Write(msg)
		}
	}
	flusher.Flush()
	h.logger.Debug("stream client connected", "client", c.id, "total", h.ClientCount())

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("stream client disconnected", "client", c.id)
			return
		case msg, ok := <-c.events:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

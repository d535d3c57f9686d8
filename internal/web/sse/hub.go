package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valnor-game/valnor/internal/model"
)

// Hub fans events out to every open stream of a single client
type Hub struct {
	clientID model.ClientID
	streams  map[*Stream]bool
	mu       sync.RWMutex
	logger   *slog.Logger

	// Channels for managing streams
	register   chan *Stream
	unregister chan *Stream
	broadcast  chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a client
func NewHub(clientID model.ClientID, logger *slog.Logger) *Hub {
	return &Hub{
		clientID:   clientID,
		streams:    make(map[*Stream]bool),
		logger:     logger.With(slog.String("client_id", string(clientID))),
		register:   make(chan *Stream),
		unregister: make(chan *Stream),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("sse hub started")
	for {
		select {
		case stream := <-h.register:
			h.mu.Lock()
			h.streams[stream] = true
			count := len(h.streams)
			h.mu.Unlock()
			h.logger.Info("sse stream registered", slog.Int("total_streams", count))

		case stream := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.streams[stream]; ok {
				delete(h.streams, stream)
				close(stream.send)
				count := len(h.streams)
				h.mu.Unlock()
				h.logger.Info("sse stream unregistered",
					slog.Duration("connection_duration", time.Since(stream.connectedAt)),
					slog.Int("total_streams", count))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			dropped := 0
			for stream := range h.streams {
				select {
				case stream.send <- message:
				default:
					dropped++
				}
			}
			h.mu.RUnlock()
			if dropped > 0 {
				h.logger.Warn("sse message dropped - stream buffer full", slog.Int("dropped", dropped))
			}

		case <-h.done:
			h.mu.Lock()
			count := len(h.streams)
			for stream := range h.streams {
				close(stream.send)
				delete(h.streams, stream)
			}
			h.mu.Unlock()
			h.logger.Debug("sse hub stopped", slog.Int("disconnected_streams", count))
			return
		}
	}
}

// Register adds a stream to the hub
func (h *Hub) Register(stream *Stream) {
	select {
	case h.register <- stream:
	case <-h.done:
		close(stream.send)
	}
}

// Unregister removes a stream from the hub
func (h *Hub) Unregister(stream *Stream) {
	select {
	case h.unregister <- stream:
	case <-h.done:
	}
}

// Broadcast sends a message to all streams without blocking
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full")
	}
}

// BroadcastEvent sends an SSE event with a name and data
func (h *Hub) BroadcastEvent(eventName, data string) {
	h.Broadcast(formatSSEMessage(eventName, data))
}

// Close shuts down the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// StreamCount returns the number of connected streams
func (h *Hub) StreamCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.streams)
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteString("\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// HubManager manages one hub per connected client
type HubManager struct {
	hubs   map[model.ClientID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.ClientID]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for a client, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(clientID model.ClientID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[clientID]; ok {
		return hub
	}

	hub := NewHub(clientID, m.logger)
	m.hubs[clientID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a client, or nil if it doesn't exist
func (m *HubManager) GetHub(clientID model.ClientID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[clientID]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(clientID model.ClientID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[clientID]; ok {
		hub.Close()
		delete(m.hubs, clientID)
	}
}

// CleanupEmptyHubs removes hubs with no streams
func (m *HubManager) CleanupEmptyHubs() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, hub := range m.hubs {
		if hub.StreamCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("sse empty hubs cleaned up", slog.Int("removed", removed))
	}
	return removed
}

// CloseAll shuts down every hub
func (m *HubManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, id)
	}
}

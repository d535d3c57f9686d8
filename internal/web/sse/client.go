package sse

import (
	"net/http"
	"time"
)

const (
	// Time between keepalive pings
	pingPeriod = 15 * time.Second

	// Each frame may take this long to reach the client. The server-wide write
	// timeout is replaced per frame so a long-lived stream is not cut off.
	frameWriteTimeout = pingPeriod + 10*time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Stream is one open event-stream connection
type Stream struct {
	send        chan []byte
	connectedAt time.Time
}

// NewStream creates a new stream
func NewStream() *Stream {
	return &Stream{
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// Messages returns the formatted SSE messages queued for the stream. The channel is
// closed when the stream is unregistered or its hub closes.
func (s *Stream) Messages() <-chan []byte {
	return s.send
}

// ServeSSE streams hub messages to the response until the request ends or the hub closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	rc := http.NewResponseController(w)
	write := func(frame []byte) error {
		// Recorders and other writers without deadlines report ErrNotSupported
		_ = rc.SetWriteDeadline(time.Now().Add(frameWriteTimeout))
		if _, err := w.Write(frame); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	stream := NewStream()
	hub.Register(stream)
	defer hub.Unregister(stream)

	// Send initial connection event
	if err := write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n")); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-stream.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if err := write(message); err != nil {
				return
			}

		case <-ticker.C:
			if err := write([]byte(": keepalive\n\n")); err != nil {
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}

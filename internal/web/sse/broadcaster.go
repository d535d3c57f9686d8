package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/valnor-game/valnor/internal/model"
)

// Broadcaster turns client events into SSE messages
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends event to the streams of the client it belongs to.
// Clients without an open stream are skipped. It never blocks.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.ClientID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(string(event.Type), string(data))
}

package handler

import (
	"net/http"

	sharedmw "github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/web/sse"
)

// EventsHandler streams the calling client's events over SSE
type EventsHandler struct {
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{hubManager: hubManager}
}

// Stream handles GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	hub := h.hubManager.GetOrCreateHub(sharedmw.GetClientID(r.Context()))
	sse.ServeSSE(w, r, hub)
}

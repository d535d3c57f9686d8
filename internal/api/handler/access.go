package handler

import (
	"net/http"

	"github.com/valnor-game/valnor/internal/api/response"
	sharedmw "github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/guard"
	"github.com/valnor-game/valnor/internal/services/player"
)

// AccessHandler answers route guard questions for clients that render their own pages
type AccessHandler struct {
	manager *player.Manager
	guard   *guard.Guard
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(manager *player.Manager, g *guard.Guard) *AccessHandler {
	return &AccessHandler{
		manager: manager,
		guard:   g,
	}
}

// Check handles GET /api/v1/access?path=...&return_to=...
func (h *AccessHandler) Check(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		WriteError(w, NewInvalidRequestError("path is required"))
		return
	}
	returnTo := r.URL.Query().Get("return_to")

	var mode model.SessionMode
	h.manager.Peek(r.Context(), sharedmw.GetClientID(r.Context()), func(p *player.Player) {
		mode = p.Session.Mode()
	})

	decision := h.guard.Decide(mode, path, returnTo)
	canWrite := decision.Allow && h.guard.IsWriteAllowed(mode, path)
	response.JSON(w, http.StatusOK, response.AccessFromDecision(mode, path, decision, canWrite))
}

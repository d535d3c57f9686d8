package handler

import (
	"net/http"

	"github.com/valnor-game/valnor/internal/api/request"
	"github.com/valnor-game/valnor/internal/api/response"
	sharedmw "github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/player"
)

// PreferenceHandler handles player preference endpoints
type PreferenceHandler struct {
	manager *player.Manager
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(manager *player.Manager) *PreferenceHandler {
	return &PreferenceHandler{manager: manager}
}

// GetGameMode handles GET /api/v1/preferences/game-mode
func (h *PreferenceHandler) GetGameMode(w http.ResponseWriter, r *http.Request) {
	var mode model.GameMode
	var err error
	h.manager.Peek(r.Context(), sharedmw.GetClientID(r.Context()), func(p *player.Player) {
		if err = requireSession(p); err != nil {
			return
		}
		mode = p.Preference.GameMode()
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameMode{GameMode: string(mode)})
}

// SetGameMode handles PUT /api/v1/preferences/game-mode
func (h *PreferenceHandler) SetGameMode(w http.ResponseWriter, r *http.Request) {
	var req request.GameModeRequest
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	mode := model.GameMode(req.GameMode)
	err := h.manager.Do(r.Context(), sharedmw.GetClientID(r.Context()), func(p *player.Player) error {
		if err := requireSession(p); err != nil {
			return err
		}
		return p.Preference.SetGameMode(mode)
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameMode{GameMode: string(mode)})
}

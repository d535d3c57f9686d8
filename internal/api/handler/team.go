package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/valnor-game/valnor/internal/api/request"
	"github.com/valnor-game/valnor/internal/api/response"
	sharedmw "github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/player"
)

// TeamHandler handles team roster endpoints
type TeamHandler struct {
	manager *player.Manager
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(manager *player.Manager) *TeamHandler {
	return &TeamHandler{manager: manager}
}

// Get handles GET /api/v1/team
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	var resp response.Team
	var err error
	h.manager.Peek(r.Context(), sharedmw.GetClientID(r.Context()), func(p *player.Player) {
		if err = requireSession(p); err != nil {
			return
		}
		resp = response.TeamFromPlayer(p)
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Assign handles PUT /api/v1/team/{slot}
func (h *TeamHandler) Assign(w http.ResponseWriter, r *http.Request) {
	slot, err := slotFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.AssignHeroRequest
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	h.update(w, r, func(p *player.Player) error {
		return p.Roster.Assign(slot, req.HeroID)
	})
}

// Remove handles DELETE /api/v1/team/{slot}
func (h *TeamHandler) Remove(w http.ResponseWriter, r *http.Request) {
	slot, err := slotFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.update(w, r, func(p *player.Player) error {
		return p.Roster.Remove(slot)
	})
}

func (h *TeamHandler) update(w http.ResponseWriter, r *http.Request, fn func(p *player.Player) error) {
	var resp response.Team
	err := h.manager.Do(r.Context(), sharedmw.GetClientID(r.Context()), func(p *player.Player) error {
		if err := requireSession(p); err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		resp = response.TeamFromPlayer(p)
		return nil
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

func slotFromPath(r *http.Request) (int, error) {
	slot, err := strconv.Atoi(mux.Vars(r)["slot"])
	if err != nil {
		return 0, model.ErrInvalidSlot
	}
	return slot, nil
}

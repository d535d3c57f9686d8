package handler

import (
	"net/http"

	"github.com/valnor-game/valnor/internal/api/apierr"
	"github.com/valnor-game/valnor/internal/api/request"
	"github.com/valnor-game/valnor/internal/api/response"
	"github.com/valnor-game/valnor/internal/dependencies/clock"
	sharedmw "github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/services/guard"
	"github.com/valnor-game/valnor/internal/services/player"
)

// Routes whose guest access level governs each mutation
const (
	battleRoute = "/battle"
	shopRoute   = "/shop"
)

// ResourcesHandler handles energy and currency endpoints
type ResourcesHandler struct {
	manager *player.Manager
	guard   *guard.Guard
	clock   clock.Clock
}

// NewResourcesHandler creates a new resources handler
func NewResourcesHandler(manager *player.Manager, g *guard.Guard, clock clock.Clock) *ResourcesHandler {
	return &ResourcesHandler{
		manager: manager,
		guard:   g,
		clock:   clock,
	}
}

// Get handles GET /api/v1/resources
func (h *ResourcesHandler) Get(w http.ResponseWriter, r *http.Request) {
	var resp response.Resources
	var err error
	h.manager.Peek(r.Context(), sharedmw.GetClientID(r.Context()), func(p *player.Player) {
		if err = requireSession(p); err != nil {
			return
		}
		resp = response.ResourcesFromEngine(p.Resources, h.clock.Now())
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// ConsumeEnergy handles POST /api/v1/resources/energy/consume.
// An unaffordable request returns 409 with the shortfall and leaves energy unchanged.
func (h *ResourcesHandler) ConsumeEnergy(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, battleRoute, func(p *player.Player, amount int) error {
		ok, err := p.Resources.Consume(amount, h.clock.Now())
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NewInsufficientEnergyError(p.Resources.Shortfall(amount))
		}
		return nil
	})
}

// AddEnergy handles POST /api/v1/resources/energy/add
func (h *ResourcesHandler) AddEnergy(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, battleRoute, func(p *player.Player, amount int) error {
		if amount <= 0 {
			return NewInvalidRequestError("amount must be positive")
		}
		p.Resources.Add(amount, h.clock.Now())
		return nil
	})
}

// SpendGold handles POST /api/v1/resources/gold/spend. Guests only browse the shop,
// so they cannot spend.
func (h *ResourcesHandler) SpendGold(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, shopRoute, func(p *player.Player, amount int) error {
		ok, err := p.Resources.SpendGold(amount)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NewInsufficientGoldError(amount - p.Resources.State().Gold)
		}
		return nil
	})
}

// mutate decodes an amount, applies fn under the client's lock and responds with
// the resulting resources. The session must be allowed to write on route.
func (h *ResourcesHandler) mutate(w http.ResponseWriter, r *http.Request, route string, fn func(p *player.Player, amount int) error) {
	var req request.AmountRequest
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	var resp response.Resources
	err := h.manager.Do(r.Context(), sharedmw.GetClientID(r.Context()), func(p *player.Player) error {
		if err := requireSession(p); err != nil {
			return err
		}
		if !h.guard.IsWriteAllowed(p.Session.Mode(), route) {
			return apierr.NewViewOnlyError()
		}
		if err := fn(p, req.Amount); err != nil {
			return err
		}
		resp = response.ResourcesFromEngine(p.Resources, h.clock.Now())
		return nil
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

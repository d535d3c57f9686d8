package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/valnor-game/valnor/internal/dependencies/clock"
	sharedmw "github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/player"
	"github.com/valnor-game/valnor/internal/services/resources"
	"github.com/valnor-game/valnor/internal/web/middleware"
	"github.com/valnor-game/valnor/internal/web/templates/pages"
)

// Battle economy
const (
	BattleEnergyCost = 10
	BattleGoldReward = 25
)

var gameModes = []model.GameMode{model.GameModeCampaign, model.GameModeSkirmish, model.GameModeArena}

// GameHandler handles the pages behind a session
type GameHandler struct {
	manager *player.Manager
	clock   clock.Clock
	logger  *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(manager *player.Manager, clock clock.Clock, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		manager: manager,
		clock:   clock,
		logger:  logger,
	}
}

func resourceView(e *resources.Engine, now time.Time) pages.ResourceView {
	st := e.State()
	return pages.ResourceView{
		Energy:         st.Energy,
		MaxEnergy:      st.MaxEnergy,
		TimeToNextUnit: e.FormatTimeToNextUnit(now),
		Progress:       e.Progress(now),
		Gold:           st.Gold,
		Gems:           st.Gems,
		Level:          st.Level,
	}
}

// peek runs fn against the client's player without saving
func (h *GameHandler) peek(r *http.Request, fn func(p *player.Player)) {
	h.manager.Peek(r.Context(), sharedmw.GetClientID(r.Context()), fn)
}

// do runs fn under the client's lock and saves the result
func (h *GameHandler) do(r *http.Request, fn func(p *player.Player) error) error {
	return h.manager.Do(r.Context(), sharedmw.GetClientID(r.Context()), fn)
}

// Dashboard renders the session landing page
func (h *GameHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := pages.DashboardData{PageData: pageData(r, "Dashboard")}
	h.peek(r, func(p *player.Player) {
		data.Resources = resourceView(p.Resources, h.clock.Now())
		data.GameMode = p.Preference.GameMode()
	})
	render(w, r, h.logger, http.StatusOK, pages.Dashboard(data))
}

// Team renders the roster
func (h *GameHandler) Team(w http.ResponseWriter, r *http.Request) {
	data := pages.TeamData{PageData: pageData(r, "Team")}
	h.peek(r, func(p *player.Player) {
		data.Resources = resourceView(p.Resources, h.clock.Now())
		data.Slots = teamSlots(p.Roster.Members())
	})
	render(w, r, h.logger, http.StatusOK, pages.Team(data))
}

func teamSlots(members []model.TeamMember) []pages.TeamSlot {
	slots := make([]pages.TeamSlot, model.TeamSize)
	for i := range slots {
		slots[i].Slot = i
	}
	for _, m := range members {
		slots[m.Slot].HeroID = m.HeroID
	}
	return slots
}

// AssignHero handles POST /team
func (h *GameHandler) AssignHero(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "/team", middleware.FlashError, "Invalid form data")
		return
	}
	slot, err := strconv.Atoi(r.FormValue("slot"))
	if err != nil {
		redirectWithFlash(w, r, "/team", middleware.FlashError, "Pick a slot between 0 and 4")
		return
	}
	heroID := r.FormValue("hero_id")

	err = h.do(r, func(p *player.Player) error {
		return p.Roster.Assign(slot, heroID)
	})
	if err != nil {
		redirectWithFlash(w, r, "/team", middleware.FlashError, formError(err))
		return
	}
	redirectWithFlash(w, r, "/team", middleware.FlashSuccess, fmt.Sprintf("%s joined slot %d", heroID, slot))
}

// RemoveHero handles POST /team/remove
func (h *GameHandler) RemoveHero(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "/team", middleware.FlashError, "Invalid form data")
		return
	}
	slot, err := strconv.Atoi(r.FormValue("slot"))
	if err == nil {
		err = h.do(r, func(p *player.Player) error {
			return p.Roster.Remove(slot)
		})
	} else {
		err = model.ErrInvalidSlot
	}
	if err != nil {
		redirectWithFlash(w, r, "/team", middleware.FlashError, formError(err))
		return
	}
	redirectWithFlash(w, r, "/team", middleware.FlashInfo, fmt.Sprintf("Slot %d cleared", slot))
}

// Battle renders the battle page
func (h *GameHandler) Battle(w http.ResponseWriter, r *http.Request) {
	data := pages.BattleData{PageData: pageData(r, "Battle"), Cost: BattleEnergyCost}
	h.peek(r, func(p *player.Player) {
		data.Resources = resourceView(p.Resources, h.clock.Now())
		data.Shortfall = p.Resources.Shortfall(BattleEnergyCost)
		data.CanAfford = data.Shortfall == 0
	})
	render(w, r, h.logger, http.StatusOK, pages.Battle(data))
}

// Fight handles POST /battle. Energy is only spent when the whole cost is available.
func (h *GameHandler) Fight(w http.ResponseWriter, r *http.Request) {
	var shortfall int
	err := h.do(r, func(p *player.Player) error {
		ok, err := p.Resources.Consume(BattleEnergyCost, h.clock.Now())
		if err != nil {
			return err
		}
		if !ok {
			shortfall = p.Resources.Shortfall(BattleEnergyCost)
			return nil
		}
		return p.Resources.AddGold(BattleGoldReward)
	})
	switch {
	case err != nil:
		h.logger.Error("battle failed", slog.String("error", err.Error()))
		redirectWithFlash(w, r, "/battle", middleware.FlashError, "The battle could not start")
	case shortfall > 0:
		redirectWithFlash(w, r, "/battle", middleware.FlashWarning, fmt.Sprintf("Not enough energy: %d more needed", shortfall))
	default:
		redirectWithFlash(w, r, "/battle", middleware.FlashSuccess, fmt.Sprintf("Victory! +%d gold", BattleGoldReward))
	}
}

// Settings renders the preferences page
func (h *GameHandler) Settings(w http.ResponseWriter, r *http.Request) {
	data := pages.SettingsData{PageData: pageData(r, "Settings"), GameModes: gameModes}
	h.peek(r, func(p *player.Player) {
		data.GameMode = p.Preference.GameMode()
	})
	render(w, r, h.logger, http.StatusOK, pages.Settings(data))
}

// SaveSettings handles POST /settings
func (h *GameHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "/settings", middleware.FlashError, "Invalid form data")
		return
	}
	mode := model.GameMode(r.FormValue("game_mode"))

	err := h.do(r, func(p *player.Player) error {
		return p.Preference.SetGameMode(mode)
	})
	if err != nil {
		redirectWithFlash(w, r, "/settings", middleware.FlashError, formError(err))
		return
	}
	redirectWithFlash(w, r, "/settings", middleware.FlashSuccess, "Settings saved")
}

// Section returns a handler rendering the catalog page at route
func (h *GameHandler) Section(route string) http.HandlerFunc {
	sec := sections[route]
	return func(w http.ResponseWriter, r *http.Request) {
		data := pages.SectionData{
			PageData: pageData(r, sec.Heading),
			Heading:  sec.Heading,
			Items:    sec.Items,
			Action:   sec.Action,
		}
		h.peek(r, func(p *player.Player) {
			data.Resources = resourceView(p.Resources, h.clock.Now())
		})
		render(w, r, h.logger, http.StatusOK, pages.Section(data))
	}
}

// Buy returns a handler purchasing an item of the catalog page at route.
// Pages a guest may only view reject the purchase.
func (h *GameHandler) Buy(route string) http.HandlerFunc {
	sec := sections[route]
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.CanWrite(r.Context()) {
			redirectWithFlash(w, r, route, middleware.FlashWarning, "Create an account to buy items")
			return
		}
		if err := r.ParseForm(); err != nil {
			redirectWithFlash(w, r, route, middleware.FlashError, "Invalid form data")
			return
		}
		item, ok := sec.item(r.FormValue("item"))
		if !ok {
			redirectWithFlash(w, r, route, middleware.FlashError, "Unknown item")
			return
		}

		var missing int
		err := h.do(r, func(p *player.Player) error {
			bought, err := p.Resources.SpendGold(item.Price)
			if err != nil {
				return err
			}
			if !bought {
				missing = item.Price - p.Resources.State().Gold
			}
			return nil
		})
		switch {
		case err != nil:
			h.logger.Error("purchase failed", slog.String("item", item.ID), slog.String("error", err.Error()))
			redirectWithFlash(w, r, route, middleware.FlashError, "The purchase failed")
		case missing > 0:
			redirectWithFlash(w, r, route, middleware.FlashWarning, fmt.Sprintf("Not enough gold: %d more needed", missing))
		default:
			redirectWithFlash(w, r, route, middleware.FlashSuccess, "Bought "+item.Name)
		}
	}
}

// formError turns a domain error into a message for the user
func formError(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidSlot):
		return "Pick a slot between 0 and 4"
	case errors.Is(err, model.ErrInvalidHero):
		return "Choose a hero"
	case errors.Is(err, model.ErrInvalidGameMode):
		return "Choose a game mode"
	}
	return "Something went wrong"
}

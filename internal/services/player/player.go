// Package player hosts the per-client state: one session controller, one resource
// engine, one roster and one preference store, wired together through an event bus.
package player

import (
	"log/slog"

	"github.com/valnor-game/valnor/internal/dependencies/clock"
	"github.com/valnor-game/valnor/internal/dependencies/random"
	"github.com/valnor-game/valnor/internal/events"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/preference"
	"github.com/valnor-game/valnor/internal/services/resources"
	"github.com/valnor-game/valnor/internal/services/roster"
	"github.com/valnor-game/valnor/internal/services/session"
)

// Player bundles the controllers owned by one client
type Player struct {
	ClientID   model.ClientID
	Bus        *events.Bus
	Session    *session.Controller
	Resources  *resources.Engine
	Roster     *roster.Roster
	Preference *preference.Store
}

func newPlayer(
	clientID model.ClientID,
	cfg resources.Config,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Player {
	bus := events.NewBus()
	return &Player{
		ClientID:   clientID,
		Bus:        bus,
		Session:    session.NewController(clientID, bus, clock, random, logger),
		Resources:  resources.NewEngine(cfg, clientID, bus, clock, logger),
		Roster:     roster.New(clientID, bus, clock, logger),
		Preference: preference.New(clientID, bus, clock, logger),
	}
}

func (p *Player) close() {
	p.Resources.Close()
	p.Roster.Close()
	p.Preference.Close()
}

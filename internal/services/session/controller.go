// Package session implements the session-mode state machine.
//
// A Controller owns the mode (none, guest or auth), the guest profile and the
// initialization flags for one client. Transitions happen only through StartAsGuest,
// StartAsAuth and EndSession; leaving an established session publishes events that
// dependent state subscribes to in order to reset itself.
package session

import (
	"log/slog"
	"sync"

	"github.com/valnor-game/valnor/internal/dependencies/clock"
	"github.com/valnor-game/valnor/internal/dependencies/random"
	"github.com/valnor-game/valnor/internal/events"
	"github.com/valnor-game/valnor/internal/model"
)

// Controller manages the session mode of a single client
type Controller struct {
	clientID model.ClientID
	bus      *events.Bus
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	mu    sync.RWMutex
	state model.SessionState
}

// NewController creates a Controller in the cold-start state
func NewController(
	clientID model.ClientID,
	bus *events.Bus,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		clientID: clientID,
		bus:      bus,
		clock:    clock,
		random:   random,
		logger:   logger.With(slog.String("client_id", string(clientID))),
		state:    model.DefaultSessionState(),
	}
}

// StartAsGuest switches to guest mode with a freshly generated profile.
// A blank name is replaced by a generated one. Calling it while already in guest mode
// keeps the existing profile.
func (c *Controller) StartAsGuest(name string) (model.SessionState, error) {
	c.mu.Lock()
	from := c.state.Mode
	if from == model.ModeGuest {
		state := c.state.Copy()
		c.mu.Unlock()
		return state, nil
	}

	name = normalizeGuestName(name)
	if name == "" {
		name = GenerateGuestName(c.random)
	}

	c.state = model.SessionState{
		Mode: model.ModeGuest,
		GuestProfile: &model.GuestProfile{
			Name:        name,
			AvatarIndex: c.random.Intn(AvatarCount),
			CreatedAt:   c.clock.Now(),
		},
		IsFirstTime:   false,
		IsInitialized: true,
	}
	state := c.state.Copy()
	c.mu.Unlock()

	c.logger.Info("session started",
		slog.String("mode", string(model.ModeGuest)),
		slog.String("from", string(from)),
		slog.String("guest_name", name))
	c.publishModeChanged(from, model.ModeGuest)

	return state, nil
}

// StartAsAuth switches to auth mode. Callers invoke it only after the authentication
// service has confirmed an identity.
func (c *Controller) StartAsAuth() (model.SessionState, error) {
	c.mu.Lock()
	from := c.state.Mode
	if from == model.ModeAuth {
		state := c.state.Copy()
		c.mu.Unlock()
		return state, nil
	}

	c.state = model.SessionState{
		Mode:          model.ModeAuth,
		GuestProfile:  nil,
		IsFirstTime:   false,
		IsInitialized: true,
	}
	state := c.state.Copy()
	c.mu.Unlock()

	c.logger.Info("session started",
		slog.String("mode", string(model.ModeAuth)),
		slog.String("from", string(from)))
	c.publishModeChanged(from, model.ModeAuth)

	return state, nil
}

// EndSession returns to mode none and triggers the dependent reset.
// Returns false when there was no session to end.
func (c *Controller) EndSession() bool {
	c.mu.Lock()
	from := c.state.Mode
	if from == model.ModeNone {
		c.mu.Unlock()
		return false
	}

	c.state.Mode = model.ModeNone
	c.state.GuestProfile = nil
	c.state.IsInitialized = false
	c.mu.Unlock()

	c.logger.Info("session ended", slog.String("from", string(from)))
	c.publishModeChanged(from, model.ModeNone)
	c.bus.Publish(model.Event{
		Type:      model.EventSessionEnded,
		Timestamp: c.clock.Now(),
		ClientID:  c.clientID,
		Payload:   model.ModeChangedPayload{From: from, To: model.ModeNone},
	})

	return true
}

// Mode returns the current session mode
func (c *Controller) Mode() model.SessionMode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Mode
}

// GuestProfile returns a copy of the guest profile, or nil outside guest mode
func (c *Controller) GuestProfile() *model.GuestProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Copy().GuestProfile
}

// State returns a copy of the full session state
func (c *Controller) State() model.SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Copy()
}

func (c *Controller) publishModeChanged(from, to model.SessionMode) {
	c.bus.Publish(model.Event{
		Type:      model.EventModeChanged,
		Timestamp: c.clock.Now(),
		ClientID:  c.clientID,
		Payload:   model.ModeChangedPayload{From: from, To: to},
	})
}

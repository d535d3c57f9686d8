// Package preference stores the player's selected game mode
package preference

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/valnor-game/valnor/internal/dependencies/clock"
	"github.com/valnor-game/valnor/internal/events"
	"github.com/valnor-game/valnor/internal/model"
)

// Store holds the selected game mode for one client
type Store struct {
	clientID model.ClientID
	bus      *events.Bus
	clock    clock.Clock
	logger   *slog.Logger

	unsubscribe func()

	mu       sync.RWMutex
	gameMode model.GameMode
}

// New creates a Store with no game mode selected.
// The selection is cleared whenever the client leaves a session.
func New(clientID model.ClientID, bus *events.Bus, clock clock.Clock, logger *slog.Logger) *Store {
	s := &Store{
		clientID: clientID,
		bus:      bus,
		clock:    clock,
		logger:   logger.With(slog.String("client_id", string(clientID))),
	}
	s.unsubscribe = bus.Subscribe(s.handleEvent)
	return s
}

// Close detaches the store from the event bus
func (s *Store) Close() {
	s.unsubscribe()
}

func (s *Store) handleEvent(event model.Event) {
	if event.Type != model.EventModeChanged {
		return
	}
	if payload, ok := event.Payload.(model.ModeChangedPayload); ok && payload.LeftSession() {
		s.logger.Debug("clearing game mode", slog.String("from", string(payload.From)))
		s.Reset()
	}
}

// GameMode returns the selected mode, or GameModeUnset
func (s *Store) GameMode() model.GameMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameMode
}

// SetGameMode selects mode
func (s *Store) SetGameMode(mode model.GameMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidGameMode, mode)
	}
	s.set(mode)
	return nil
}

// Reset clears the selection
func (s *Store) Reset() {
	s.set(model.GameModeUnset)
}

func (s *Store) set(mode model.GameMode) {
	s.mu.Lock()
	changed := s.gameMode != mode
	s.gameMode = mode
	s.mu.Unlock()

	if !changed {
		return
	}
	s.bus.Publish(model.Event{
		Type:      model.EventGameModeChanged,
		Timestamp: s.clock.Now(),
		ClientID:  s.clientID,
		Payload:   model.GameModeChangedPayload{GameMode: mode},
	})
}

type snapshot struct {
	State struct {
		GameMode model.GameMode `json:"gameMode"`
	} `json:"state"`
	Version int `json:"version"`
}

// Snapshot encodes the preference for persistence
func (s *Store) Snapshot() ([]byte, error) {
	var snap snapshot
	snap.State.GameMode = s.GameMode()
	snap.Version = 1
	return json.Marshal(snap)
}

// Restore loads a persisted preference; unknown modes are cleared
func (s *Store) Restore(data []byte) error {
	var snap snapshot
	err := json.Unmarshal(data, &snap)

	mode := snap.State.GameMode
	if err != nil || !mode.Valid() {
		mode = model.GameModeUnset
	}

	s.mu.Lock()
	s.gameMode = mode
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: preferences: %v", model.ErrMalformedSnapshot, err)
	}
	return nil
}

package session

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/valnor-game/valnor/internal/model"
)

// SnapshotVersion is the current session snapshot format.
// Version 1 snapshots predate guest mode being a supported choice; any guest session
// found in one is treated as having no session.
const SnapshotVersion = 2

type snapshot struct {
	State   model.SessionState `json:"state"`
	Version int                `json:"version"`
}

// Snapshot encodes the current state for persistence
func (c *Controller) Snapshot() ([]byte, error) {
	c.mu.RLock()
	snap := snapshot{State: c.state.Copy(), Version: SnapshotVersion}
	c.mu.RUnlock()
	return json.Marshal(snap)
}

// Restore replaces the current state with a persisted snapshot.
// It runs once at cold start and publishes no events. Undecodable data resets to the
// default state and returns ErrMalformedSnapshot for the caller to log.
func (c *Controller) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.mu.Lock()
		c.state = model.DefaultSessionState()
		c.mu.Unlock()
		return fmt.Errorf("%w: session: %v", model.ErrMalformedSnapshot, err)
	}

	state := normalize(snap.State, snap.Version)

	c.mu.Lock()
	c.state = state
	c.mu.Unlock()

	c.logger.Debug("session restored",
		slog.String("mode", string(state.Mode)),
		slog.Int("version", snap.Version))
	return nil
}

// normalize repairs a decoded state so the profile invariant holds
func normalize(state model.SessionState, version int) model.SessionState {
	if !state.Mode.Valid() {
		state.Mode = model.ModeNone
	}
	if version < SnapshotVersion && state.Mode == model.ModeGuest {
		state.Mode = model.ModeNone
	}
	if state.Mode == model.ModeGuest && state.GuestProfile == nil {
		state.Mode = model.ModeNone
	}
	if state.Mode != model.ModeGuest {
		state.GuestProfile = nil
	}
	if state.Mode == model.ModeNone {
		state.IsInitialized = false
	}
	return state.Copy()
}

// Package roster manages the player's team lineup
package roster

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/valnor-game/valnor/internal/dependencies/clock"
	"github.com/valnor-game/valnor/internal/events"
	"github.com/valnor-game/valnor/internal/model"
)

// Roster holds up to model.TeamSize heroes, one per slot
type Roster struct {
	clientID model.ClientID
	bus      *events.Bus
	clock    clock.Clock
	logger   *slog.Logger

	unsubscribe func()

	mu    sync.Mutex
	slots map[int]string // slot -> hero ID
}

// New creates an empty roster that clears itself when the client leaves a session
func New(clientID model.ClientID, bus *events.Bus, clock clock.Clock, logger *slog.Logger) *Roster {
	r := &Roster{
		clientID: clientID,
		bus:      bus,
		clock:    clock,
		logger:   logger.With(slog.String("client_id", string(clientID))),
		slots:    make(map[int]string),
	}
	r.unsubscribe = bus.Subscribe(r.handleEvent)
	return r
}

// Close detaches the roster from the event bus
func (r *Roster) Close() {
	r.unsubscribe()
}

func (r *Roster) handleEvent(event model.Event) {
	if event.Type != model.EventModeChanged {
		return
	}
	if payload, ok := event.Payload.(model.ModeChangedPayload); ok && payload.LeftSession() {
		r.logger.Debug("resetting roster", slog.String("from", string(payload.From)))
		r.Reset()
	}
}

// Assign places heroID in slot. A hero already on the team moves to the new slot.
func (r *Roster) Assign(slot int, heroID string) error {
	if slot < 0 || slot >= model.TeamSize {
		return fmt.Errorf("%w: %d", model.ErrInvalidSlot, slot)
	}
	heroID = strings.TrimSpace(heroID)
	if heroID == "" {
		return model.ErrInvalidHero
	}

	r.mu.Lock()
	for s, id := range r.slots {
		if id == heroID {
			delete(r.slots, s)
		}
	}
	r.slots[slot] = heroID
	members := r.membersLocked()
	r.mu.Unlock()

	r.publish(members)
	return nil
}

// Remove empties slot. Removing an empty slot is a no-op.
func (r *Roster) Remove(slot int) error {
	if slot < 0 || slot >= model.TeamSize {
		return fmt.Errorf("%w: %d", model.ErrInvalidSlot, slot)
	}

	r.mu.Lock()
	if _, ok := r.slots[slot]; !ok {
		r.mu.Unlock()
		return nil
	}
	delete(r.slots, slot)
	members := r.membersLocked()
	r.mu.Unlock()

	r.publish(members)
	return nil
}

// Members returns the team ordered by slot
func (r *Roster) Members() []model.TeamMember {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.membersLocked()
}

// Reset empties the team
func (r *Roster) Reset() {
	r.mu.Lock()
	r.slots = make(map[int]string)
	r.mu.Unlock()

	r.publish([]model.TeamMember{})
}

func (r *Roster) membersLocked() []model.TeamMember {
	members := make([]model.TeamMember, 0, len(r.slots))
	for slot, heroID := range r.slots {
		members = append(members, model.TeamMember{HeroID: heroID, Slot: slot})
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].Slot < members[j].Slot
	})
	return members
}

func (r *Roster) publish(members []model.TeamMember) {
	r.bus.Publish(model.Event{
		Type:      model.EventRosterChanged,
		Timestamp: r.clock.Now(),
		ClientID:  r.clientID,
		Payload:   model.RosterChangedPayload{Members: members},
	})
}

type snapshot struct {
	State struct {
		Members []model.TeamMember `json:"members"`
	} `json:"state"`
	Version int `json:"version"`
}

// Snapshot encodes the team for persistence
func (r *Roster) Snapshot() ([]byte, error) {
	var snap snapshot
	snap.State.Members = r.Members()
	snap.Version = 1
	return json.Marshal(snap)
}

// Restore loads a persisted team, dropping entries with invalid slots or heroes
func (r *Roster) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.mu.Lock()
		r.slots = make(map[int]string)
		r.mu.Unlock()
		return fmt.Errorf("%w: team: %v", model.ErrMalformedSnapshot, err)
	}

	slots := make(map[int]string)
	seen := make(map[string]bool)
	for _, m := range snap.State.Members {
		heroID := strings.TrimSpace(m.HeroID)
		if m.Slot < 0 || m.Slot >= model.TeamSize || heroID == "" || seen[heroID] {
			continue
		}
		if _, taken := slots[m.Slot]; taken {
			continue
		}
		slots[m.Slot] = heroID
		seen[heroID] = true
	}

	r.mu.Lock()
	r.slots = slots
	r.mu.Unlock()
	return nil
}

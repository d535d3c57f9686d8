// Package resources implements the player's capacity-bounded counters.
//
// Energy regenerates lazily: nothing runs in the background, and every read settles the
// wall-clock time elapsed since LastEnergyUpdate into whole units. Gold and gems are plain
// counters sharing the energy record's lifecycle.
package resources

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/valnor-game/valnor/internal/dependencies/clock"
	"github.com/valnor-game/valnor/internal/events"
	"github.com/valnor-game/valnor/internal/model"
)

// Starting progress values
const (
	StartingLevel      = 1
	StartingExperience = 0
)

// Config holds the defaults a fresh player record starts with
type Config struct {
	MaxEnergy          int
	EnergyRegenMinutes float64
	StartingGold       int
	StartingGems       int
}

// DefaultConfig returns default resource configuration
func DefaultConfig() Config {
	return Config{
		MaxEnergy:          100,
		EnergyRegenMinutes: 5,
		StartingGold:       1000,
		StartingGems:       50,
	}
}

// Engine owns the resource state of a single client
type Engine struct {
	cfg      Config
	clientID model.ClientID
	bus      *events.Bus
	clock    clock.Clock
	logger   *slog.Logger

	unsubscribe func()

	mu    sync.Mutex
	state model.ResourceState
}

// NewEngine creates an Engine holding full energy stamped at the current time.
// The engine resets itself whenever the client leaves an established session.
func NewEngine(cfg Config, clientID model.ClientID, bus *events.Bus, clock clock.Clock, logger *slog.Logger) *Engine {
	defaults := DefaultConfig()
	if cfg.MaxEnergy <= 0 {
		cfg.MaxEnergy = defaults.MaxEnergy
	}
	if cfg.EnergyRegenMinutes <= 0 || math.IsInf(cfg.EnergyRegenMinutes, 0) || math.IsNaN(cfg.EnergyRegenMinutes) {
		cfg.EnergyRegenMinutes = defaults.EnergyRegenMinutes
	}

	e := &Engine{
		cfg:      cfg,
		clientID: clientID,
		bus:      bus,
		clock:    clock,
		logger:   logger.With(slog.String("client_id", string(clientID))),
	}
	e.state = e.defaultState(clock.Now())
	e.unsubscribe = bus.Subscribe(e.handleEvent)
	return e
}

// Close detaches the engine from the event bus
func (e *Engine) Close() {
	e.unsubscribe()
}

func (e *Engine) defaultState(now time.Time) model.ResourceState {
	return model.ResourceState{
		Energy:             e.cfg.MaxEnergy,
		MaxEnergy:          e.cfg.MaxEnergy,
		LastEnergyUpdate:   now,
		EnergyRegenMinutes: e.cfg.EnergyRegenMinutes,
		Gold:               e.cfg.StartingGold,
		Gems:               e.cfg.StartingGems,
		Level:              StartingLevel,
		Experience:         StartingExperience,
	}
}

func (e *Engine) handleEvent(event model.Event) {
	if event.Type != model.EventModeChanged {
		return
	}
	payload, ok := event.Payload.(model.ModeChangedPayload)
	if !ok || !payload.LeftSession() {
		return
	}
	e.logger.Debug("resetting resources", slog.String("from", string(payload.From)))
	e.Reset(e.clock.Now())
}

// Consume spends amount energy if available and stamps the regen clock.
// Returns false without mutating when energy is insufficient.
func (e *Engine) Consume(amount int, now time.Time) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("%w: consume %d", model.ErrInvalidAmount, amount)
	}

	e.mu.Lock()
	if e.state.Energy < amount {
		energy := e.state.Energy
		e.mu.Unlock()
		e.logger.Warn("insufficient energy",
			slog.Int("requested", amount),
			slog.Int("energy", energy))
		return false, nil
	}
	e.state.Energy -= amount
	e.state.LastEnergyUpdate = now
	st := e.state
	e.mu.Unlock()

	e.publishEnergy(st, now)
	return true, nil
}

// Add changes energy by amount, clamped to [0, MaxEnergy].
// Leaving a full bar starts the regen clock at now, so time spent full is never banked.
func (e *Engine) Add(amount int, now time.Time) {
	if amount == 0 {
		return
	}

	e.mu.Lock()
	wasFull := e.state.Energy >= e.state.MaxEnergy
	energy := clampedSum(e.state.Energy, amount, e.state.MaxEnergy)
	if energy == e.state.Energy {
		e.mu.Unlock()
		return
	}
	e.state.Energy = energy
	if wasFull && energy < e.state.MaxEnergy {
		e.state.LastEnergyUpdate = now
	}
	st := e.state
	e.mu.Unlock()

	e.publishEnergy(st, now)
}

// clampedSum returns energy+amount clamped to [0, maxEnergy] without overflowing
func clampedSum(energy, amount, maxEnergy int) int {
	switch {
	case amount >= maxEnergy-energy:
		return maxEnergy
	case amount <= -energy:
		return 0
	}
	return energy + amount
}

// RecomputeRegen settles regeneration up to now
func (e *Engine) RecomputeRegen(now time.Time) {
	e.mu.Lock()
	before := e.state.Energy
	st, changed := recompute(e.state, now)
	if changed {
		e.state = st
	}
	e.mu.Unlock()

	if changed && st.Energy != before {
		e.publishEnergy(st, now)
	}
}

// SetMaxEnergy changes the capacity, settling regeneration first
func (e *Engine) SetMaxEnergy(maxEnergy int, now time.Time) error {
	if maxEnergy <= 0 {
		return fmt.Errorf("%w: max energy %d", model.ErrInvalidAmount, maxEnergy)
	}

	e.mu.Lock()
	st, _ := recompute(e.state, now)
	wasFull := st.Energy >= st.MaxEnergy
	st.MaxEnergy = maxEnergy
	st.Energy = min(st.Energy, maxEnergy)
	if wasFull && st.Energy < maxEnergy {
		st.LastEnergyUpdate = now
	}
	e.state = st
	e.mu.Unlock()

	e.publishEnergy(st, now)
	return nil
}

// Energy returns the current energy
func (e *Engine) Energy() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Energy
}

// MaxEnergy returns the energy capacity
func (e *Engine) MaxEnergy() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.MaxEnergy
}

// Shortfall returns how much energy is missing to afford amount
func (e *Engine) Shortfall(amount int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return max(0, amount-e.state.Energy)
}

// TimeToNextUnit returns the wait until the next energy unit, zero when full
func (e *Engine) TimeToNextUnit(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return timeToNextUnit(e.state, now)
}

// Progress returns the percentage completed toward the next energy unit
func (e *Engine) Progress(now time.Time) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return progress(e.state, now)
}

// FormatTimeToNextUnit renders the wait as M:SS, or "" when energy is full
func (e *Engine) FormatTimeToNextUnit(now time.Time) string {
	e.mu.Lock()
	full := e.state.Energy >= e.state.MaxEnergy
	d := timeToNextUnit(e.state, now)
	e.mu.Unlock()

	if full {
		return ""
	}
	return FormatDuration(d)
}

// FormatDuration renders d as M:SS, rounding partial seconds up
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// SpendGold deducts amount gold if available
func (e *Engine) SpendGold(amount int) (bool, error) {
	return e.spend(amount, "gold", func(st *model.ResourceState) *int { return &st.Gold })
}

// AddGold credits amount gold
func (e *Engine) AddGold(amount int) error {
	return e.credit(amount, "gold", func(st *model.ResourceState) *int { return &st.Gold })
}

// SpendGems deducts amount gems if available
func (e *Engine) SpendGems(amount int) (bool, error) {
	return e.spend(amount, "gems", func(st *model.ResourceState) *int { return &st.Gems })
}

// AddGems credits amount gems
func (e *Engine) AddGems(amount int) error {
	return e.credit(amount, "gems", func(st *model.ResourceState) *int { return &st.Gems })
}

func (e *Engine) spend(amount int, name string, field func(*model.ResourceState) *int) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("%w: spend %d %s", model.ErrInvalidAmount, amount, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	balance := field(&e.state)
	if *balance < amount {
		return false, nil
	}
	*balance -= amount
	return true, nil
}

func (e *Engine) credit(amount int, name string, field func(*model.ResourceState) *int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: add %d %s", model.ErrInvalidAmount, amount, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	balance := field(&e.state)
	if *balance > math.MaxInt-amount {
		*balance = math.MaxInt
		return nil
	}
	*balance += amount
	return nil
}

// Reset restores the documented defaults with full energy stamped at now
func (e *Engine) Reset(now time.Time) {
	e.mu.Lock()
	e.state = e.defaultState(now)
	st := e.state
	e.mu.Unlock()

	e.publishEnergy(st, now)
}

// State returns a copy of the resource state
func (e *Engine) State() model.ResourceState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) publishEnergy(st model.ResourceState, now time.Time) {
	e.bus.Publish(model.Event{
		Type:      model.EventEnergyChanged,
		Timestamp: now,
		ClientID:  e.clientID,
		Payload: model.EnergyChangedPayload{
			Energy:    st.Energy,
			MaxEnergy: st.MaxEnergy,
		},
	})
}

package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/valnor-game/valnor/internal/dependencies/clock"
	"github.com/valnor-game/valnor/internal/dependencies/random"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/auth"
	"github.com/valnor-game/valnor/internal/services/resources"
	"github.com/valnor-game/valnor/internal/storage"
)

// EventSink receives every event published on any client's bus
type EventSink func(model.Event)

// Config holds configuration for the player manager
type Config struct {
	Resources resources.Config
}

// DefaultConfig returns default player configuration
func DefaultConfig() Config {
	return Config{
		Resources: resources.DefaultConfig(),
	}
}

// Manager owns one in-memory Player per client and serializes access to it.
// A client's state is read from storage only when it is first touched; afterwards the
// in-memory copy is authoritative and written back after every Do. Clients left idle
// are dropped by EvictIdle and rehydrate on their next access.
type Manager struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config

	mu      sync.Mutex
	entries map[model.ClientID]*entry
	sink    EventSink
}

type entry struct {
	mu       sync.Mutex
	player   *Player
	lastUsed time.Time
	unsaved  bool // the last save failed, memory is ahead of storage
	dead     bool // evicted; holders must fetch a new entry
}

// NewManager creates a Manager
func NewManager(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Manager {
	return &Manager{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		cfg:     cfg,
		entries: make(map[model.ClientID]*entry),
	}
}

// SetEventSink forwards all client events to sink. Events are delivered while the
// client's lock is held, so sink must not block or call back into the Manager.
func (m *Manager) SetEventSink(sink EventSink) {
	m.mu.Lock()
	m.sink = sink
	m.mu.Unlock()
}

// Do runs fn with exclusive access to the client's state. Energy regeneration is
// settled before fn runs and every snapshot is persisted afterwards.
func (m *Manager) Do(ctx context.Context, clientID model.ClientID, fn func(p *Player) error) error {
	e := m.lock(clientID)
	defer e.mu.Unlock()

	p := m.ensureLoaded(ctx, clientID, e)
	p.Resources.RecomputeRegen(m.clock.Now())

	fnErr := fn(p)

	err := m.save(ctx, p)
	e.unsaved = err != nil
	if err != nil {
		m.logger.Error("failed to save player state",
			slog.String("client_id", string(clientID)),
			slog.String("error", err.Error()))
		if fnErr == nil {
			return err
		}
	}
	return fnErr
}

// Peek runs fn with exclusive access to the client's state without persisting it.
// Regeneration is still settled first so reads observe current energy.
func (m *Manager) Peek(ctx context.Context, clientID model.ClientID, fn func(p *Player)) {
	e := m.lock(clientID)
	defer e.mu.Unlock()

	p := m.ensureLoaded(ctx, clientID, e)
	p.Resources.RecomputeRegen(m.clock.Now())
	fn(p)
}

// Forget drops the in-memory copy; the next access rehydrates from storage
func (m *Manager) Forget(clientID model.ClientID) {
	m.mu.Lock()
	e, ok := m.entries[clientID]
	m.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	m.drop(clientID, e)
}

// EvictIdle drops clients not touched for idle and returns how many were removed.
// A client whose last save failed is saved again first and kept if that fails too.
func (m *Manager) EvictIdle(ctx context.Context, idle time.Duration) int {
	cutoff := m.clock.Now().Add(-idle)

	m.mu.Lock()
	candidates := make(map[model.ClientID]*entry, len(m.entries))
	for id, e := range m.entries {
		candidates[id] = e
	}
	m.mu.Unlock()

	evicted := 0
	for id, e := range candidates {
		if m.evict(ctx, id, e, cutoff) {
			evicted++
		}
	}
	return evicted
}

func (m *Manager) evict(ctx context.Context, clientID model.ClientID, e *entry, cutoff time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dead || e.lastUsed.After(cutoff) {
		return false
	}
	if e.unsaved && e.player != nil {
		if err := m.save(ctx, e.player); err != nil {
			m.logger.Warn("keeping idle client with unsaved state",
				slog.String("client_id", string(clientID)),
				slog.String("error", err.Error()))
			return false
		}
		e.unsaved = false
	}
	m.drop(clientID, e)
	return true
}

// drop retires e. The caller holds e.mu.
func (m *Manager) drop(clientID model.ClientID, e *entry) {
	e.dead = true
	if e.player != nil {
		e.player.close()
		e.player = nil
	}

	m.mu.Lock()
	if m.entries[clientID] == e {
		delete(m.entries, clientID)
	}
	m.mu.Unlock()
}

// RunEviction calls EvictIdle every interval until ctx is done
func (m *Manager) RunEviction(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.EvictIdle(ctx, idle); n > 0 {
				m.logger.Debug("idle clients evicted", slog.Int("count", n))
			}
		}
	}
}

// Loaded returns the number of clients held in memory
func (m *Manager) Loaded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// SyncIdentity ends an auth session whose backend identity is gone.
// identity is the current result of the authentication collaborator, nil when signed out.
func (m *Manager) SyncIdentity(ctx context.Context, clientID model.ClientID, identity *model.Identity) error {
	if identity != nil {
		return nil
	}
	return m.Do(ctx, clientID, func(p *Player) error {
		if p.Session.Mode() != model.ModeAuth {
			return nil
		}
		m.logger.Info("auth identity lost, ending session", slog.String("client_id", string(clientID)))
		p.Session.EndSession()
		return nil
	})
}

// HandleIdentityChange ends the client's session when the authentication
// collaborator signs it out or expires its token
func (m *Manager) HandleIdentityChange(change auth.Change) {
	if change.Kind == auth.SignedIn || change.ClientID == "" {
		return
	}
	if err := m.SyncIdentity(context.Background(), change.ClientID, nil); err != nil {
		m.logger.Error("failed to end session after sign-out",
			slog.String("client_id", string(change.ClientID)),
			slog.String("error", err.Error()))
	}
}

// lock returns the client's live entry with its mutex held
func (m *Manager) lock(clientID model.ClientID) *entry {
	for {
		e := m.entry(clientID)
		e.mu.Lock()
		if !e.dead {
			e.lastUsed = m.clock.Now()
			return e
		}
		e.mu.Unlock()
	}
}

func (m *Manager) entry(clientID model.ClientID) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[clientID]
	if !ok {
		e = &entry{}
		m.entries[clientID] = e
	}
	return e
}

func (m *Manager) ensureLoaded(ctx context.Context, clientID model.ClientID, e *entry) *Player {
	if e.player != nil {
		return e.player
	}

	p := newPlayer(clientID, m.cfg.Resources, m.clock, m.random, m.logger)
	m.restore(ctx, p)
	p.Bus.Subscribe(m.forward)
	e.player = p
	return p
}

func (m *Manager) forward(event model.Event) {
	m.mu.Lock()
	sink := m.sink
	m.mu.Unlock()
	if sink != nil {
		sink(event)
	}
}

// restore rehydrates every component. Missing snapshots keep defaults; malformed ones
// are logged and replaced by defaults.
func (m *Manager) restore(ctx context.Context, p *Player) {
	now := m.clock.Now()
	restorers := map[storage.SnapshotKey]func([]byte) error{
		storage.KeySession:     p.Session.Restore,
		storage.KeyPlayer:      func(data []byte) error { return p.Resources.Restore(data, now) },
		storage.KeyTeam:        p.Roster.Restore,
		storage.KeyPreferences: p.Preference.Restore,
	}

	for _, key := range storage.SnapshotKeys {
		data, err := m.storage.GetSnapshot(ctx, p.ClientID, key)
		if errors.Is(err, model.ErrSnapshotNotFound) {
			continue
		}
		if err != nil {
			m.logger.Error("failed to load snapshot",
				slog.String("client_id", string(p.ClientID)),
				slog.String("key", string(key)),
				slog.String("error", err.Error()))
			continue
		}
		if err := restorers[key](data); err != nil {
			m.logger.Warn("discarding malformed snapshot",
				slog.String("client_id", string(p.ClientID)),
				slog.String("key", string(key)),
				slog.String("error", err.Error()))
		}
	}
}

func (m *Manager) save(ctx context.Context, p *Player) error {
	snapshotters := map[storage.SnapshotKey]func() ([]byte, error){
		storage.KeySession:     p.Session.Snapshot,
		storage.KeyPlayer:      p.Resources.Snapshot,
		storage.KeyTeam:        p.Roster.Snapshot,
		storage.KeyPreferences: p.Preference.Snapshot,
	}

	for _, key := range storage.SnapshotKeys {
		data, err := snapshotters[key]()
		if err != nil {
			return fmt.Errorf("encode %s snapshot: %w", key, err)
		}
		if err := m.storage.PutSnapshot(ctx, p.ClientID, key, data); err != nil {
			return fmt.Errorf("store %s snapshot: %w", key, err)
		}
	}
	return nil
}

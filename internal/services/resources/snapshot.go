package resources

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/valnor-game/valnor/internal/model"
)

// SnapshotVersion is the current resource snapshot format
const SnapshotVersion = 1

// record is the persisted projection of the player record.
// LastEnergyUpdate is stored as unix milliseconds.
type record struct {
	Energy             int     `json:"energy"`
	MaxEnergy          int     `json:"maxEnergy"`
	LastEnergyUpdate   int64   `json:"lastEnergyUpdate"`
	EnergyRegenMinutes float64 `json:"energyRegenMinutes"`
	Gold               int     `json:"gold"`
	Gems               int     `json:"gems"`
	Level              int     `json:"level"`
	Experience         int     `json:"experience"`
}

type snapshot struct {
	State   record `json:"state"`
	Version int    `json:"version"`
}

// Snapshot encodes the current state for persistence
func (e *Engine) Snapshot() ([]byte, error) {
	e.mu.Lock()
	st := e.state
	e.mu.Unlock()

	return json.Marshal(snapshot{
		State: record{
			Energy:             st.Energy,
			MaxEnergy:          st.MaxEnergy,
			LastEnergyUpdate:   st.LastEnergyUpdate.UnixMilli(),
			EnergyRegenMinutes: st.EnergyRegenMinutes,
			Gold:               st.Gold,
			Gems:               st.Gems,
			Level:              st.Level,
			Experience:         st.Experience,
		},
		Version: SnapshotVersion,
	})
}

// Restore replaces the current state with a persisted snapshot, repairing any
// out-of-range values. Undecodable data resets to defaults and returns
// ErrMalformedSnapshot for the caller to log.
func (e *Engine) Restore(data []byte, now time.Time) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		e.mu.Lock()
		e.state = e.defaultState(now)
		e.mu.Unlock()
		return fmt.Errorf("%w: resources: %v", model.ErrMalformedSnapshot, err)
	}

	st := e.repair(snap.State, now)

	e.mu.Lock()
	e.state = st
	e.mu.Unlock()

	e.logger.Debug("resources restored",
		slog.Int("energy", st.Energy),
		slog.Int("max_energy", st.MaxEnergy))
	return nil
}

func (e *Engine) repair(r record, now time.Time) model.ResourceState {
	st := model.ResourceState{
		Energy:             r.Energy,
		MaxEnergy:          r.MaxEnergy,
		EnergyRegenMinutes: r.EnergyRegenMinutes,
		Gold:               max(0, r.Gold),
		Gems:               max(0, r.Gems),
		Level:              max(StartingLevel, r.Level),
		Experience:         max(0, r.Experience),
	}
	if st.MaxEnergy <= 0 {
		st.MaxEnergy = e.cfg.MaxEnergy
	}
	if st.EnergyRegenMinutes <= 0 || math.IsNaN(st.EnergyRegenMinutes) || math.IsInf(st.EnergyRegenMinutes, 0) {
		st.EnergyRegenMinutes = e.cfg.EnergyRegenMinutes
	}
	st.Energy = max(0, min(st.Energy, st.MaxEnergy))
	if r.LastEnergyUpdate <= 0 {
		st.LastEnergyUpdate = now
	} else {
		st.LastEnergyUpdate = time.UnixMilli(r.LastEnergyUpdate).UTC()
	}
	return st
}

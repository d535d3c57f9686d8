package resources

import (
	"time"

	"github.com/valnor-game/valnor/internal/model"
)

// recompute settles elapsed wall-clock time into whole energy units.
// Partial progress toward the next unit is kept by moving LastEnergyUpdate forward only
// by the time actually converted. Returns false when nothing changed.
func recompute(st model.ResourceState, now time.Time) (model.ResourceState, bool) {
	if st.Energy >= st.MaxEnergy {
		if st.LastEnergyUpdate.Equal(now) {
			return st, false
		}
		st.LastEnergyUpdate = now
		return st, true
	}

	interval := st.RegenInterval()
	if interval <= 0 {
		return st, false
	}

	elapsed := now.Sub(st.LastEnergyUpdate)
	if elapsed <= 0 {
		return st, false
	}

	units := int64(elapsed / interval)
	if units == 0 {
		return st, false
	}

	remainder := elapsed % interval
	room := int64(st.MaxEnergy - st.Energy)
	if units > room {
		units = room
	}
	st.Energy += int(units)
	st.LastEnergyUpdate = now.Add(-remainder)
	return st, true
}

// sinceUpdate returns the elapsed time counted toward the next unit, never negative
func sinceUpdate(st model.ResourceState, now time.Time) time.Duration {
	elapsed := now.Sub(st.LastEnergyUpdate)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// timeToNextUnit is the wait until the next whole unit, zero when full
func timeToNextUnit(st model.ResourceState, now time.Time) time.Duration {
	interval := st.RegenInterval()
	if st.Energy >= st.MaxEnergy || interval <= 0 {
		return 0
	}
	return interval - sinceUpdate(st, now)%interval
}

// progress is the percentage [0, 100) completed toward the next unit, 100 when full
func progress(st model.ResourceState, now time.Time) float64 {
	interval := st.RegenInterval()
	if st.Energy >= st.MaxEnergy || interval <= 0 {
		return 100
	}
	partial := sinceUpdate(st, now) % interval
	return float64(partial) / float64(interval) * 100
}

package model

import "time"

// ResourceState holds the player's counters.
// Energy regenerates over wall-clock time; the other fields are plain progress counters
// that share the energy record's lifecycle.
type ResourceState struct {
	Energy             int
	MaxEnergy          int
	LastEnergyUpdate   time.Time // Last moment Energy was authoritatively correct
	EnergyRegenMinutes float64   // Minutes needed to regenerate one unit

	Gold       int
	Gems       int
	Level      int
	Experience int
}

// RegenInterval returns the duration needed to regenerate one energy unit
func (r ResourceState) RegenInterval() time.Duration {
	return time.Duration(r.EnergyRegenMinutes * float64(time.Minute))
}

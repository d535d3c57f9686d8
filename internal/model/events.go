package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Session events
	EventModeChanged  EventType = "mode_changed"
	EventSessionEnded EventType = "session_ended"

	// Player state events
	EventEnergyChanged   EventType = "energy_changed"
	EventRosterChanged   EventType = "roster_changed"
	EventGameModeChanged EventType = "game_mode_changed"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	ClientID  ClientID  `json:"client_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// ModeChangedPayload contains data for mode changed events
type ModeChangedPayload struct {
	From SessionMode `json:"from"`
	To   SessionMode `json:"to"`
}

// LeftSession reports whether the transition left an established session,
// which requires dependent state to be reset
func (p ModeChangedPayload) LeftSession() bool {
	return p.From != ModeNone && p.From != p.To
}

// EnergyChangedPayload contains data for energy changed events
type EnergyChangedPayload struct {
	Energy    int `json:"energy"`
	MaxEnergy int `json:"max_energy"`
}

// RosterChangedPayload contains data for roster changed events
type RosterChangedPayload struct {
	Members []TeamMember `json:"members"`
}

// GameModeChangedPayload contains data for game mode changed events
type GameModeChangedPayload struct {
	GameMode GameMode `json:"game_mode"`
}

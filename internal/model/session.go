package model

import "time"

// ClientID identifies a browser or device across requests.
// All persisted snapshots are namespaced by it.
type ClientID string

// SessionMode describes how a client is connected to the game
type SessionMode string

const (
	ModeNone  SessionMode = "none"  // Nothing chosen yet
	ModeGuest SessionMode = "guest" // Local-only play, no backend identity
	ModeAuth  SessionMode = "auth"  // Backend-verified identity
)

// Valid reports whether m is one of the known modes
func (m SessionMode) Valid() bool {
	switch m {
	case ModeNone, ModeGuest, ModeAuth:
		return true
	}
	return false
}

// GuestProfile is the locally generated identity used in guest mode
type GuestProfile struct {
	Name        string    `json:"name"`
	AvatarIndex int       `json:"avatarIndex"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionState is the full state owned by the session controller.
// GuestProfile is non-nil if and only if Mode is ModeGuest.
type SessionState struct {
	Mode          SessionMode   `json:"mode"`
	GuestProfile  *GuestProfile `json:"guestProfile"`
	IsFirstTime   bool          `json:"isFirstTime"`
	IsInitialized bool          `json:"isInitialized"`
}

// DefaultSessionState returns the cold-start state
func DefaultSessionState() SessionState {
	return SessionState{
		Mode:        ModeNone,
		IsFirstTime: true,
	}
}

// Copy returns a deep copy of the state
func (s SessionState) Copy() SessionState {
	if s.GuestProfile != nil {
		p := *s.GuestProfile
		s.GuestProfile = &p
	}
	return s
}

package response

import (
	"time"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/auth"
	"github.com/valnor-game/valnor/internal/services/guard"
	"github.com/valnor-game/valnor/internal/services/player"
	"github.com/valnor-game/valnor/internal/services/resources"
)

// GuestProfile represents a guest profile in API responses
type GuestProfile struct {
	Name        string    `json:"name"`
	AvatarIndex int       `json:"avatar_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// Identity represents the signed-in account
type Identity struct {
	AccountID   string `json:"account_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// IdentityFromModel converts model.Identity
func IdentityFromModel(id model.Identity) Identity {
	return Identity{
		AccountID:   string(id.AccountID),
		Username:    id.Username,
		DisplayName: id.DisplayName,
	}
}

// Session represents the session mode state
type Session struct {
	Mode          string        `json:"mode"`
	GuestProfile  *GuestProfile `json:"guest_profile"`
	IsFirstTime   bool          `json:"is_first_time"`
	IsInitialized bool          `json:"is_initialized"`
	Identity      *Identity     `json:"identity,omitempty"`
}

// SessionFromModel converts model.SessionState. identity is only reported in auth mode.
func SessionFromModel(s model.SessionState, identity *model.Identity) Session {
	resp := Session{
		Mode:          string(s.Mode),
		IsFirstTime:   s.IsFirstTime,
		IsInitialized: s.IsInitialized,
	}
	if s.GuestProfile != nil {
		resp.GuestProfile = &GuestProfile{
			Name:        s.GuestProfile.Name,
			AvatarIndex: s.GuestProfile.AvatarIndex,
			CreatedAt:   s.GuestProfile.CreatedAt,
		}
	}
	if identity != nil && s.Mode == model.ModeAuth {
		id := IdentityFromModel(*identity)
		resp.Identity = &id
	}
	return resp
}

// AuthResponse is the response for register and login
type AuthResponse struct {
	Session      Session   `json:"session"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from an auth session and the resulting state
func AuthResponseFromSession(s *auth.Session, state model.SessionState) AuthResponse {
	return AuthResponse{
		Session:      SessionFromModel(state, &s.Identity),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// LogoutResponse is the response for ending a session
type LogoutResponse struct {
	Ended   bool    `json:"ended"`
	Session Session `json:"session"`
}

// Access is the guard decision for a path
type Access struct {
	Mode     string `json:"mode"`
	Path     string `json:"path"`
	Allow    bool   `json:"allow"`
	Target   string `json:"target,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Access   string `json:"access,omitempty"`
	CanWrite bool   `json:"can_write"`
}

// AccessFromDecision converts a guard decision
func AccessFromDecision(mode model.SessionMode, path string, d guard.Decision, canWrite bool) Access {
	return Access{
		Mode:     string(mode),
		Path:     path,
		Allow:    d.Allow,
		Target:   d.Target,
		Reason:   d.Reason,
		Access:   string(d.Access),
		CanWrite: canWrite,
	}
}

// Resources represents the player's counters and regeneration status
type Resources struct {
	Energy             int       `json:"energy"`
	MaxEnergy          int       `json:"max_energy"`
	LastEnergyUpdate   time.Time `json:"last_energy_update"`
	EnergyRegenMinutes float64   `json:"energy_regen_minutes"`
	TimeToNextUnit     string    `json:"time_to_next_unit"`
	SecondsToNextUnit  float64   `json:"seconds_to_next_unit"`
	Progress           float64   `json:"progress"`
	Gold               int       `json:"gold"`
	Gems               int       `json:"gems"`
	Level              int       `json:"level"`
	Experience         int       `json:"experience"`
}

// ResourcesFromEngine reads the engine at now
func ResourcesFromEngine(e *resources.Engine, now time.Time) Resources {
	st := e.State()
	return Resources{
		Energy:             st.Energy,
		MaxEnergy:          st.MaxEnergy,
		LastEnergyUpdate:   st.LastEnergyUpdate,
		EnergyRegenMinutes: st.EnergyRegenMinutes,
		TimeToNextUnit:     e.FormatTimeToNextUnit(now),
		SecondsToNextUnit:  e.TimeToNextUnit(now).Seconds(),
		Progress:           e.Progress(now),
		Gold:               st.Gold,
		Gems:               st.Gems,
		Level:              st.Level,
		Experience:         st.Experience,
	}
}

// TeamMember represents a hero in a team slot
type TeamMember struct {
	Slot   int    `json:"slot"`
	HeroID string `json:"hero_id"`
}

// Team represents the roster
type Team struct {
	Size    int          `json:"size"`
	Members []TeamMember `json:"members"`
}

// TeamFromPlayer converts the player's roster
func TeamFromPlayer(p *player.Player) Team {
	members := p.Roster.Members()
	resp := Team{Size: model.TeamSize, Members: make([]TeamMember, len(members))}
	for i, m := range members {
		resp.Members[i] = TeamMember{Slot: m.Slot, HeroID: m.HeroID}
	}
	return resp
}

// GameMode represents the selected game mode, empty when unset
type GameMode struct {
	GameMode string `json:"game_mode"`
}

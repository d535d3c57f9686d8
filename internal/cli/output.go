package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case AuthResult:
		o.printAuthResult(v)
	case LogoutResult:
		o.printLogoutResult(v)
	case Access:
		o.printAccess(v)
	case Resources:
		o.printResources(v)
	case Team:
		o.printTeam(v)
	case GameMode:
		o.printGameMode(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// GuestProfile response type (matches API)
type GuestProfile struct {
	Name        string    `json:"name"`
	AvatarIndex int       `json:"avatar_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// Identity response type
type Identity struct {
	AccountID   string `json:"account_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Session response type
type Session struct {
	Mode          string        `json:"mode"`
	GuestProfile  *GuestProfile `json:"guest_profile"`
	IsFirstTime   bool          `json:"is_first_time"`
	IsInitialized bool          `json:"is_initialized"`
	Identity      *Identity     `json:"identity,omitempty"`
}

// AuthResult combines the session and its token
type AuthResult struct {
	Session      Session   `json:"session"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LogoutResult response type
type LogoutResult struct {
	Ended   bool    `json:"ended"`
	Session Session `json:"session"`
}

// Access response type
type Access struct {
	Mode     string `json:"mode"`
	Path     string `json:"path"`
	Allow    bool   `json:"allow"`
	Target   string `json:"target,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Access   string `json:"access,omitempty"`
	CanWrite bool   `json:"can_write"`
}

// Resources response type
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

// TeamMember response type
type TeamMember struct {
	Slot   int    `json:"slot"`
	HeroID string `json:"hero_id"`
}

// Team response type
type Team struct {
	Size    int          `json:"size"`
	Members []TeamMember `json:"members"`
}

// GameMode response type
type GameMode struct {
	GameMode string `json:"game_mode"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printSession(s Session) {
	fmt.Fprintf(o.w, "Mode: %s\n", s.Mode)
	if s.GuestProfile != nil {
		fmt.Fprintf(o.w, "Guest: %s (avatar %d)\n", s.GuestProfile.Name, s.GuestProfile.AvatarIndex)
	}
	if s.Identity != nil {
		fmt.Fprintf(o.w, "Account: %s (%s)\n", s.Identity.DisplayName, s.Identity.Username)
	}
	if s.IsFirstTime {
		fmt.Fprintln(o.w, "First visit: yes")
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printSession(a.Session)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
	fmt.Fprintf(o.w, "Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printLogoutResult(l LogoutResult) {
	if l.Ended {
		fmt.Fprintln(o.w, "Session ended")
	} else {
		fmt.Fprintln(o.w, "No active session")
	}
	o.printSession(l.Session)
}

func (o *Output) printAccess(a Access) {
	if a.Allow {
		fmt.Fprintf(o.w, "%s: allowed (%s)\n", a.Path, a.Access)
		if !a.CanWrite {
			fmt.Fprintln(o.w, "Write actions: disabled")
		}
		return
	}
	fmt.Fprintf(o.w, "%s: redirect to %s\n", a.Path, a.Target)
	if a.Reason != "" {
		fmt.Fprintf(o.w, "Reason: %s\n", a.Reason)
	}
}

func (o *Output) printResources(r Resources) {
	fmt.Fprintf(o.w, "Energy: %d/%d %s\n", r.Energy, r.MaxEnergy, progressBar(r.Energy, r.MaxEnergy, 20))
	if r.TimeToNextUnit != "" {
		fmt.Fprintf(o.w, "Next unit in: %s (%.0f%%)\n", r.TimeToNextUnit, r.Progress)
	} else {
		fmt.Fprintln(o.w, "Energy full")
	}
	fmt.Fprintf(o.w, "Gold: %d  Gems: %d  Level: %d (%d xp)\n", r.Gold, r.Gems, r.Level, r.Experience)
}

// progressBar renders value out of total as a fixed-width bar
func progressBar(value, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := min(width, max(0, value*width/total))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func (o *Output) printTeam(t Team) {
	slots := make([]string, t.Size)
	for _, m := range t.Members {
		if m.Slot >= 0 && m.Slot < len(slots) {
			slots[m.Slot] = m.HeroID
		}
	}
	fmt.Fprintf(o.w, "Team (%d/%d):\n", len(t.Members), t.Size)
	for i, hero := range slots {
		if hero == "" {
			hero = "-"
		}
		fmt.Fprintf(o.w, "  %d: %s\n", i, hero)
	}
}

func (o *Output) printGameMode(g GameMode) {
	if g.GameMode == "" {
		fmt.Fprintln(o.w, "Game mode: not selected")
		return
	}
	fmt.Fprintf(o.w, "Game mode: %s\n", g.GameMode)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

// Package guard decides whether a session mode may enter a route.
package guard

import (
	"net/url"
	"sort"
	"strings"

	"github.com/valnor-game/valnor/internal/model"
)

// Redirect reasons shown to the user
const (
	ReasonAccountRequired = "you need an account to access this section"
	ReasonSignInRequired  = "sign in or continue as a guest to access this page"
)

// Decision is the outcome of a guard check.
// When Allow is false, Target holds the redirect location.
type Decision struct {
	Allow  bool              `json:"allow"`
	Target string            `json:"target,omitempty"`
	Reason string            `json:"reason,omitempty"`
	Access model.AccessLevel `json:"access,omitempty"`
}

// Config holds the route tables used by the guard
type Config struct {
	LoginPath     string
	LandingPath   string
	PublicPaths   []string
	AuthOnlyPaths []string
	GuestAccess   map[string]model.AccessLevel
}

// DefaultConfig returns the default route tables
func DefaultConfig() Config {
	return Config{
		LoginPath:     "/login",
		LandingPath:   "/dashboard",
		PublicPaths:   []string{"/", "/about"},
		AuthOnlyPaths: []string{"/login", "/register"},
		GuestAccess: map[string]model.AccessLevel{
			"/dashboard":   model.AccessFull,
			"/team":        model.AccessFull,
			"/battle":      model.AccessFull,
			"/settings":    model.AccessFull,
			"/shop":        model.AccessViewOnly,
			"/inventory":   model.AccessViewOnly,
			"/heroes":      model.AccessViewOnly,
			"/leaderboard": model.AccessViewOnly,
			"/dungeon":     model.AccessBlocked,
			"/pvp":         model.AccessBlocked,
			"/guild":       model.AccessBlocked,
			"/marketplace": model.AccessBlocked,
		},
	}
}

// Guard applies the route tables to a session mode
type Guard struct {
	cfg      Config
	public   map[string]bool
	authOnly map[string]bool
	prefixes []string // guest access prefixes, longest first
}

// New creates a Guard. Empty fields are filled from DefaultConfig.
func New(cfg Config) *Guard {
	defaults := DefaultConfig()
	if cfg.LoginPath == "" {
		cfg.LoginPath = defaults.LoginPath
	}
	if cfg.LandingPath == "" {
		cfg.LandingPath = defaults.LandingPath
	}
	if cfg.PublicPaths == nil {
		cfg.PublicPaths = defaults.PublicPaths
	}
	if cfg.AuthOnlyPaths == nil {
		cfg.AuthOnlyPaths = defaults.AuthOnlyPaths
	}
	if cfg.GuestAccess == nil {
		cfg.GuestAccess = defaults.GuestAccess
	}

	g := &Guard{
		cfg:      cfg,
		public:   make(map[string]bool, len(cfg.PublicPaths)),
		authOnly: make(map[string]bool, len(cfg.AuthOnlyPaths)),
	}
	for _, p := range cfg.PublicPaths {
		g.public[cleanPath(p)] = true
	}
	for _, p := range cfg.AuthOnlyPaths {
		g.authOnly[cleanPath(p)] = true
	}
	for prefix := range cfg.GuestAccess {
		g.prefixes = append(g.prefixes, cleanPath(prefix))
	}
	sort.Slice(g.prefixes, func(i, j int) bool {
		return len(g.prefixes[i]) > len(g.prefixes[j])
	})
	return g
}

// LoginPath returns the sign-in route
func (g *Guard) LoginPath() string {
	return g.cfg.LoginPath
}

// LandingPath returns the default route for an established session
func (g *Guard) LandingPath() string {
	return g.cfg.LandingPath
}

// Decide evaluates a navigation to path in the given mode.
// returnTo is the page an authenticated user came from when hitting an auth-only page.
func (g *Guard) Decide(mode model.SessionMode, path, returnTo string) Decision {
	path = cleanPath(path)

	if g.public[path] {
		return Decision{Allow: true, Access: model.AccessFull}
	}

	if g.authOnly[path] {
		if mode == model.ModeAuth {
			target := g.cfg.LandingPath
			if isLocalPath(returnTo) && !g.authOnly[cleanPath(returnTo)] {
				target = returnTo
			}
			return Decision{Target: target}
		}
		return Decision{Allow: true, Access: model.AccessFull}
	}

	switch mode {
	case model.ModeAuth:
		return Decision{Allow: true, Access: model.AccessFull}
	case model.ModeGuest:
		access := g.GuestAccess(path)
		if access == model.AccessBlocked {
			return Decision{
				Target: g.cfg.LandingPath,
				Reason: ReasonAccountRequired,
				Access: model.AccessBlocked,
			}
		}
		return Decision{Allow: true, Access: access}
	default:
		return Decision{
			Target: g.cfg.LoginPath + "?from=" + url.QueryEscape(path),
			Reason: ReasonSignInRequired,
		}
	}
}

// GuestAccess returns the access level a guest has on path.
// The longest configured prefix that matches on a path-segment boundary wins;
// paths matching no entry are blocked.
func (g *Guard) GuestAccess(path string) model.AccessLevel {
	path = cleanPath(path)
	for _, prefix := range g.prefixes {
		if hasSegmentPrefix(path, prefix) {
			return g.cfg.GuestAccess[prefix]
		}
	}
	return model.AccessBlocked
}

// IsWriteAllowed reports whether a guest may perform mutating actions on path
func (g *Guard) IsWriteAllowed(mode model.SessionMode, path string) bool {
	switch mode {
	case model.ModeAuth:
		return true
	case model.ModeGuest:
		return g.GuestAccess(path) == model.AccessFull
	}
	return false
}

func hasSegmentPrefix(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// cleanPath strips query, fragment and trailing slashes
func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// isLocalPath rejects absolute and protocol-relative URLs as redirect targets
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "\\")
}

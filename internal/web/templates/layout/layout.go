// Package layout holds the data shared by every rendered page.
package layout

import "github.com/valnor-game/valnor/internal/model"

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // success, error, warning, info
	Message string
}

// PageData is embedded in every page's data
type PageData struct {
	Title    string
	Path     string
	Session  model.SessionState
	Identity *model.Identity
	Flash    *FlashMessage

	// Access is the guest access level of the current page; CanWrite is false when
	// write actions must render disabled
	Access   model.AccessLevel
	CanWrite bool
}

// DisplayName is the name shown in the navigation bar
func (p PageData) DisplayName() string {
	switch p.Session.Mode {
	case model.ModeGuest:
		if p.Session.GuestProfile != nil {
			return p.Session.GuestProfile.Name
		}
	case model.ModeAuth:
		if p.Identity != nil {
			return p.Identity.DisplayName
		}
	}
	return ""
}

// IsGuest reports whether the page is rendered for a guest
func (p PageData) IsGuest() bool {
	return p.Session.Mode == model.ModeGuest
}

// HasSession reports whether a guest or auth session is active
func (p PageData) HasSession() bool {
	return p.Session.Mode != model.ModeNone
}

// ViewOnly reports whether the page renders with write actions disabled
func (p PageData) ViewOnly() bool {
	return !p.CanWrite
}

// Package pages holds the server-side HTML pages as templ components.
package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/web/templates/layout"
)

// HomeData is the data for the landing page
type HomeData struct {
	layout.PageData
}

// LoginData is the data for the sign-in page
type LoginData struct {
	layout.PageData
	Username string
	From     string
	Error    string
}

// RegisterData is the data for the registration page
type RegisterData struct {
	layout.PageData
	Username    string
	DisplayName string
	Error       string
	FieldErrors map[string]string
}

// ResourceView is the resource bar shown on game pages
type ResourceView struct {
	Energy         int
	MaxEnergy      int
	TimeToNextUnit string
	Progress       float64
	Gold           int
	Gems           int
	Level          int
}

// DashboardData is the data for the dashboard
type DashboardData struct {
	layout.PageData
	Resources ResourceView
	GameMode  model.GameMode
}

// TeamData is the data for the team page
type TeamData struct {
	layout.PageData
	Resources ResourceView
	Slots     []TeamSlot
}

// TeamSlot is one roster slot, HeroID is empty when unfilled
type TeamSlot struct {
	Slot   int
	HeroID string
}

// BattleData is the data for the battle page
type BattleData struct {
	layout.PageData
	Resources ResourceView
	Cost      int
	CanAfford bool
	Shortfall int
}

// SettingsData is the data for the settings page
type SettingsData struct {
	layout.PageData
	GameMode  model.GameMode
	GameModes []model.GameMode
}

// SectionData is the data for catalog-style sections (shop, heroes, guild...)
type SectionData struct {
	layout.PageData
	Resources ResourceView
	Heading   string
	Items     []SectionItem
	Action    string // form action for the write button, empty when the section has none
}

// SectionItem is one entry of a section listing
type SectionItem struct {
	ID    string
	Name  string
	Price int
}

// ErrorData is the data for the error page
type ErrorData struct {
	layout.PageData
	Message string
}

// Home renders the landing page
func Home(data HomeData) templ.Component {
	return page(data.PageData, component(func(_ context.Context, m *markup) {
		m.raw(`<h1>Valnor</h1>`)
		if data.HasSession() {
			m.raw(`<p>Welcome back, <strong>`)
			m.text(data.DisplayName())
			m.raw(`</strong>.</p><a href="/dashboard" class="button">Continue</a>`)
			return
		}
		m.raw(`<p>Lead a band of heroes through the realm of Valnor.</p>`,
			`<form method="post" action="/auth/guest" class="guest-form">`,
			`<label for="name">Guest name (optional)</label>`,
			`<input type="text" id="name" name="name" maxlength="20">`,
			`<button type="submit">Play as guest</button></form>`,
			`<a href="/login" class="button">Sign in</a>`,
			`<a href="/register" class="button">Create account</a>`)
	}))
}

// About renders the about page
func About(data HomeData) templ.Component {
	return page(data.PageData, component(func(_ context.Context, m *markup) {
		m.raw(`<h1>About Valnor</h1>`,
			`<p>Play instantly as a guest or create an account to unlock dungeons, PvP, guilds and the marketplace.</p>`,
			`<p>Energy refills one point at a time while you are away.</p>`)
	}))
}

// Login renders the sign-in page
func Login(data LoginData) templ.Component {
	return page(data.PageData, component(func(_ context.Context, m *markup) {
		m.raw(`<h1>Sign in</h1>`)
		formError(m, data.Error)
		m.raw(`<form method="post" action="/login" class="login-form"><input type="hidden" name="from"`)
		m.attr("value", data.From)
		m.raw(`><label for="username">Username</label><input type="text" id="username" name="username"`)
		m.attr("value", data.Username)
		m.raw(` required><label for="password">Password</label>`,
			`<input type="password" id="password" name="password" required>`,
			`<button type="submit">Sign in</button></form>`)
		if !data.HasSession() {
			m.raw(`<form method="post" action="/auth/guest" class="guest-form"><input type="hidden" name="from"`)
			m.attr("value", data.From)
			m.raw(`><button type="submit">Continue as guest</button></form>`)
		}
		m.raw(`<p>No account yet? <a href="/register">Create one</a>.</p>`)
	}))
}

// registerFields are the inputs of the registration form, in order
var registerFields = []struct{ Name, Label, Type string }{
	{"username", "Username", "text"},
	{"display_name", "Display name", "text"},
	{"password", "Password", "password"},
	{"password_confirm", "Confirm password", "password"},
}

// Register renders the registration page
func Register(data RegisterData) templ.Component {
	values := map[string]string{"username": data.Username, "display_name": data.DisplayName}
	return page(data.PageData, component(func(_ context.Context, m *markup) {
		m.raw(`<h1>Create account</h1>`)
		if data.IsGuest() {
			m.raw(`<p class="notice">Creating an account starts a fresh save. Guest progress is not carried over.</p>`)
		}
		formError(m, data.Error)
		m.raw(`<form method="post" action="/register" class="register-form">`)
		for _, f := range registerFields {
			m.raw(`<label`)
			m.attr("for", f.Name)
			m.raw(`>`)
			m.text(f.Label)
			m.raw(`</label><input`)
			m.attr("type", f.Type)
			m.attr("id", f.Name)
			m.attr("name", f.Name)
			if f.Type != "password" {
				m.attr("value", values[f.Name])
			}
			m.flag("required", f.Name != "display_name")
			m.raw(`>`)
			if msg := data.FieldErrors[f.Name]; msg != "" {
				m.raw(`<span class="field-error"`)
				m.attr("data-field", f.Name)
				m.raw(`>`)
				m.text(msg)
				m.raw(`</span>`)
			}
		}
		m.raw(`<button type="submit">Create account</button></form>`)
	}))
}

func formError(m *markup, msg string) {
	if msg == "" {
		return
	}
	m.raw(`<p class="form-error" role="alert">`)
	m.text(msg)
	m.raw(`</p>`)
}

// dashboardLinks are the sections listed on the dashboard
var dashboardLinks = []struct{ Href, Label string }{
	{"/battle", "Battle"},
	{"/team", "Team"},
	{"/dungeon", "Dungeon"},
	{"/pvp", "PvP"},
	{"/guild", "Guild"},
	{"/marketplace", "Marketplace"},
}

// Dashboard renders the session landing page
func Dashboard(data DashboardData) templ.Component {
	return page(data.PageData, component(func(ctx context.Context, m *markup) {
		m.raw(`<h1>Dashboard</h1>`)
		if profile := data.Session.GuestProfile; profile != nil {
			m.raw(`<div class="guest-profile"><span`)
			m.attr("class", fmt.Sprintf("avatar avatar-%d", profile.AvatarIndex))
			m.raw(`></span><span class="guest-name">`)
			m.text(profile.Name)
			m.raw(`</span></div>`)
		}
		m.child(ctx, resourceBar(data.Resources))
		m.raw(`<p class="game-mode">Game mode: `)
		if data.GameMode != "" {
			m.text(modeLabel(data.GameMode))
		} else {
			m.raw(`not selected`)
		}
		m.raw(`</p><ul class="sections">`)
		for _, link := range dashboardLinks {
			m.raw(`<li><a`)
			m.attr("href", link.Href)
			m.raw(`>`)
			m.text(link.Label)
			m.raw(`</a></li>`)
		}
		m.raw(`</ul>`)
	}))
}

// Team renders the roster page
func Team(data TeamData) templ.Component {
	return page(data.PageData, component(func(ctx context.Context, m *markup) {
		m.raw(`<h1>Team</h1>`)
		m.child(ctx, resourceBar(data.Resources))
		m.raw(`<ol class="team-slots">`)
		for _, slot := range data.Slots {
			m.raw(`<li class="team-slot"`)
			m.attr("data-slot", fmt.Sprint(slot.Slot))
			m.raw(`>`)
			if slot.HeroID == "" {
				m.raw(`<span class="empty">Empty</span></li>`)
				continue
			}
			m.raw(`<span class="hero">`)
			m.text(slot.HeroID)
			m.raw(`</span><form method="post" action="/team/remove" class="inline"><input type="hidden" name="slot"`)
			m.attr("value", fmt.Sprint(slot.Slot))
			m.raw(`><button type="submit">Remove</button></form></li>`)
		}
		m.raw(`</ol><form method="post" action="/team" class="assign-form">`,
			`<label for="slot">Slot</label>`)
		m.raw(`<input type="number" id="slot" name="slot" min="0"`)
		m.attr("max", fmt.Sprint(model.TeamSize-1))
		m.raw(` required><label for="hero_id">Hero</label>`,
			`<input type="text" id="hero_id" name="hero_id" required>`,
			`<button type="submit">Assign</button></form>`)
	}))
}

// Battle renders the battle page
func Battle(data BattleData) templ.Component {
	return page(data.PageData, component(func(ctx context.Context, m *markup) {
		m.raw(`<h1>Battle</h1>`)
		m.child(ctx, resourceBar(data.Resources))
		m.raw(`<form method="post" action="/battle" class="battle-form"><button type="submit"`)
		m.flag("disabled", !data.CanAfford)
		m.raw(`>`)
		m.text(fmt.Sprintf("Fight (%d energy)", data.Cost))
		m.raw(`</button></form>`)
		if !data.CanAfford {
			m.raw(`<p class="shortfall">`)
			m.text(fmt.Sprintf("You need %d more energy.", data.Shortfall))
			m.raw(`</p>`)
		}
	}))
}

// Settings renders the preferences page
func Settings(data SettingsData) templ.Component {
	return page(data.PageData, component(func(_ context.Context, m *markup) {
		m.raw(`<h1>Settings</h1><form method="post" action="/settings" class="settings-form">`,
			`<fieldset><legend>Game mode</legend>`)
		for _, mode := range data.GameModes {
			m.raw(`<label><input type="radio" name="game_mode"`)
			m.attr("value", string(mode))
			m.flag("checked", mode == data.GameMode)
			m.raw(`>`)
			m.text(modeLabel(mode))
			m.raw(`</label>`)
		}
		m.raw(`</fieldset><button type="submit">Save</button></form>`)
	}))
}

// Section renders a catalog page. Buy buttons are disabled on view-only pages.
func Section(data SectionData) templ.Component {
	return page(data.PageData, component(func(ctx context.Context, m *markup) {
		m.raw(`<h1>`)
		m.text(data.Heading)
		m.raw(`</h1>`)
		m.child(ctx, resourceBar(data.Resources))
		m.raw(`<ul class="items">`)
		for _, item := range data.Items {
			m.raw(`<li class="item"`)
			m.attr("data-id", item.ID)
			m.raw(`><span class="item-name">`)
			m.text(item.Name)
			m.raw(`</span>`)
			if item.Price > 0 {
				m.raw(`<span class="price">`)
				m.int(item.Price)
				m.raw(`</span>`)
			}
			if data.Action != "" {
				m.raw(`<form method="post" class="inline"`)
				m.attr("action", data.Action)
				m.raw(`><input type="hidden" name="item"`)
				m.attr("value", item.ID)
				m.raw(`><button type="submit"`)
				m.flag("disabled", data.ViewOnly())
				m.raw(`>Buy</button></form>`)
			}
			m.raw(`</li>`)
		}
		m.raw(`</ul>`)
	}))
}

// Error renders the error page
func Error(data ErrorData) templ.Component {
	return page(data.PageData, component(func(_ context.Context, m *markup) {
		m.raw(`<h1>Something went wrong</h1><p>`)
		m.text(data.Message)
		m.raw(`</p><p><a href="/">Return to home</a></p>`)
	}))
}

// modeLabel capitalises a game mode for display
func modeLabel(mode model.GameMode) string {
	s := string(mode)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

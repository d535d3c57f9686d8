package pages

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/valnor-game/valnor/internal/web/templates/layout"
)

// navLinks appear in the navigation bar while a session is active
var navLinks = []struct{ Href, Label string }{
	{"/dashboard", "Dashboard"},
	{"/team", "Team"},
	{"/battle", "Battle"},
	{"/heroes", "Heroes"},
	{"/shop", "Shop"},
	{"/settings", "Settings"},
}

// Layout renders the page shell around the children in ctx
func Layout(data layout.PageData) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		m.text(data.Title + " · Valnor")
		m.raw(`</title><link rel="stylesheet" href="/static/app.css"></head><body`)
		m.attr("data-mode", string(data.Session.Mode))
		m.raw(`><nav><a href="/" class="brand">Valnor</a>`)
		if data.HasSession() {
			for _, link := range navLinks {
				m.raw(`<a`)
				m.attr("href", link.Href)
				m.raw(`>`)
				m.text(link.Label)
				m.raw(`</a>`)
			}
			class := "player-name"
			if data.IsGuest() {
				class += " guest"
			}
			m.raw(`<span`)
			m.attr("class", class)
			m.raw(`>`)
			m.text(data.DisplayName())
			m.raw(`</span>`)
			logout := "Sign out"
			if data.IsGuest() {
				m.raw(`<a href="/register" class="upgrade">Create account</a>`)
				logout = "End guest session"
			}
			m.raw(`<form method="post" action="/auth/logout" class="inline"><button type="submit">`)
			m.text(logout)
			m.raw(`</button></form>`)
		} else {
			m.raw(`<a href="/about">About</a><a href="/login">Sign in</a>`)
		}
		m.raw(`</nav>`)

		if data.Flash != nil {
			m.raw(`<div`)
			m.attr("class", "flash flash-"+data.Flash.Type)
			m.raw(` role="alert">`)
			m.text(data.Flash.Message)
			m.raw(`</div>`)
		}
		if data.HasSession() && data.ViewOnly() {
			m.raw(`<div class="view-only-banner">Guests can browse this section. Create an account to use it.</div>`)
		}

		m.raw(`<main>`)
		m.child(templ.ClearChildren(ctx), templ.GetChildren(ctx))
		m.raw(`</main></body></html>`)
	})
}

// page wraps content in the layout
func page(data layout.PageData, content templ.Component) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.child(templ.WithChildren(ctx, content), Layout(data))
	})
}

// resourceBar renders the energy and currency bar
func resourceBar(r ResourceView) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<section class="resources"><span class="energy"`)
		m.attr("data-energy", fmt.Sprint(r.Energy))
		m.raw(`>`)
		m.text(fmt.Sprintf("%d/%d", r.Energy, r.MaxEnergy))
		m.raw(`</span>`)
		if r.TimeToNextUnit != "" {
			m.raw(`<span class="energy-timer">+1 in `)
			m.text(r.TimeToNextUnit)
			m.raw(`</span>`)
		}
		m.raw(`<progress class="energy-progress" max="100"`)
		m.attr("value", fmt.Sprintf("%.0f", r.Progress))
		m.raw(`></progress><span class="gold">`)
		m.int(r.Gold)
		m.raw(`</span><span class="gems">`)
		m.int(r.Gems)
		m.raw(`</span><span class="level">Lv `)
		m.int(r.Level)
		m.raw(`</span></section>`)
	})
}

package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/web/templates/layout"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestLayoutEscapesGuestName(t *testing.T) {
	data := layout.PageData{
		Title: "Home",
		Session: model.SessionState{
			Mode:         model.ModeGuest,
			GuestProfile: &model.GuestProfile{Name: `<script>alert("x")</script>`},
		},
		CanWrite: true,
	}

	html := renderString(t, Home(HomeData{PageData: data}))

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, `data-mode="guest"`)
}

func TestLayoutWrapsPageInMain(t *testing.T) {
	html := renderString(t, Error(ErrorData{
		PageData: layout.PageData{Title: "Error"},
		Message:  "Boom & bust",
	}))

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<main><h1>Something went wrong</h1><p>Boom &amp; bust</p>")
	assert.Contains(t, html, "<title>Error · Valnor</title>")
}

func TestViewOnlyBannerShownToGuests(t *testing.T) {
	data := layout.PageData{
		Title:   "Shop",
		Session: model.SessionState{Mode: model.ModeGuest, GuestProfile: &model.GuestProfile{Name: "Alice"}},
	}

	html := renderString(t, Error(ErrorData{PageData: data}))
	assert.Contains(t, html, `class="view-only-banner"`)

	data.CanWrite = true
	html = renderString(t, Error(ErrorData{PageData: data}))
	assert.NotContains(t, html, `class="view-only-banner"`)
}

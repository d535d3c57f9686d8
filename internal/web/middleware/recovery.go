package middleware

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/web/templates/layout"
	"github.com/valnor-game/valnor/internal/web/templates/pages"
)

const panicMessage = "Something went wrong. Please try again later."

// Recovery creates panic recovery middleware for the web interface. A panicking
// page is answered with the site's error page.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

// webPanicHandler runs outside the session middleware, so the page renders as
// signed out
func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	var buf bytes.Buffer
	data := pages.ErrorData{
		PageData: layout.PageData{Title: "Error", Path: r.URL.Path},
		Message:  panicMessage,
	}
	if err := pages.Error(data).Render(r.Context(), &buf); err != nil {
		http.Error(w, panicMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = buf.WriteTo(w)
}

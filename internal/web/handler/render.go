package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/valnor-game/valnor/internal/web/middleware"
	"github.com/valnor-game/valnor/internal/web/templates/layout"
)

// pageData builds the layout data shared by every page from the request context
func pageData(r *http.Request, title string) layout.PageData {
	ctx := r.Context()
	decision := middleware.GetDecision(ctx)
	return layout.PageData{
		Title:    title,
		Path:     r.URL.Path,
		Session:  middleware.GetSessionState(ctx),
		Identity: middleware.GetIdentity(ctx),
		Flash:    middleware.GetFlash(ctx),
		Access:   decision.Access,
		CanWrite: middleware.CanWrite(ctx),
	}
}

// render writes component as HTML with status. The page is buffered so a render
// error becomes a plain 500 instead of a truncated page.
func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		logger.Error("failed to render page", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// redirectWithFlash stores a flash message and redirects with 303
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	middleware.SetFlash(w, kind, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

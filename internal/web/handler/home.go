package handler

import (
	"log/slog"
	"net/http"

	"github.com/valnor-game/valnor/internal/web/templates/pages"
)

// HomeHandler handles the public pages
type HomeHandler struct {
	logger *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(logger *slog.Logger) *HomeHandler {
	return &HomeHandler{logger: logger}
}

// Home renders the landing page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.logger, http.StatusOK, pages.Home(pages.HomeData{PageData: pageData(r, "Home")}))
}

// About renders the about page
func (h *HomeHandler) About(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.logger, http.StatusOK, pages.About(pages.HomeData{PageData: pageData(r, "About")}))
}

// NotFound renders the 404 page
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.logger, http.StatusNotFound, pages.Error(pages.ErrorData{
		PageData: pageData(r, "Not found"),
		Message:  "That page does not exist.",
	}))
}

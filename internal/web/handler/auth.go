package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	sharedmw "github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/auth"
	"github.com/valnor-game/valnor/internal/services/guard"
	"github.com/valnor-game/valnor/internal/services/player"
	"github.com/valnor-game/valnor/internal/web/middleware"
	"github.com/valnor-game/valnor/internal/web/templates/pages"
)

// AuthHandler handles session pages and actions
type AuthHandler struct {
	authService *auth.Service
	manager     *player.Manager
	guard       *guard.Guard
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, manager *player.Manager, g *guard.Guard, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		manager:     manager,
		guard:       g,
		logger:      logger,
	}
}

// LoginPage renders the sign-in page. Signed-in users never reach it; the guard
// sends them back to where they came from.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.logger, http.StatusOK, pages.Login(pages.LoginData{
		PageData: pageData(r, "Sign in"),
		From:     r.URL.Query().Get("from"),
	}))
}

// RegisterPage renders the registration page
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.logger, http.StatusOK, pages.Register(pages.RegisterData{
		PageData:    pageData(r, "Create account"),
		FieldErrors: make(map[string]string),
	}))
}

// StartGuest handles POST /auth/guest
func (h *AuthHandler) StartGuest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, "/", middleware.FlashError, "Invalid form data")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	from := r.FormValue("from")
	clientID := sharedmw.GetClientID(r.Context())

	var state model.SessionState
	err := h.manager.Do(r.Context(), clientID, func(p *player.Player) error {
		var err error
		state, err = p.Session.StartAsGuest(name)
		return err
	})
	if err != nil {
		h.logger.Error("failed to start guest session", slog.String("error", err.Error()))
		redirectWithFlash(w, r, "/", middleware.FlashError, "Could not start a guest session")
		return
	}

	if session := middleware.GetAuthSession(r.Context()); session != nil {
		h.authService.Logout(session.Token)
		clearSessionCookie(w)
	}

	target := h.guard.LandingPath()
	if isLocalPath(from) && h.guard.Decide(model.ModeGuest, from, "").Allow {
		target = from
	}
	redirectWithFlash(w, r, target, middleware.FlashSuccess, "Welcome, "+state.GuestProfile.Name+"!")
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "Invalid form data", "", "")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	from := r.FormValue("from")

	if username == "" || password == "" {
		h.renderLoginError(w, r, "Username and password are required", username, from)
		return
	}

	clientID := sharedmw.GetClientID(r.Context())
	session, err := h.authService.Login(r.Context(), clientID, username, password)
	if err != nil {
		h.renderLoginError(w, r, "Invalid username or password", username, from)
		return
	}

	if !h.startAuth(w, r, session) {
		return
	}

	// Same rule the guard applies to a signed-in user landing on /login
	target := h.guard.Decide(model.ModeAuth, h.guard.LoginPath(), from).Target
	redirectWithFlash(w, r, target, middleware.FlashSuccess, "Welcome back, "+session.Identity.DisplayName+"!")
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderRegisterError(w, r, "Invalid form data", "", "", nil)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")
	passwordConfirm := r.FormValue("password_confirm")

	fieldErrors := make(map[string]string)

	// Validate inputs
	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		fieldErrors["username"] = "Username is required"
	case n < 3:
		fieldErrors["username"] = "Username must be at least 3 characters"
	case n > 32:
		fieldErrors["username"] = "Username must be at most 32 characters"
	}

	if utf8.RuneCountInString(displayName) > 32 {
		fieldErrors["display_name"] = "Display name must be at most 32 characters"
	}

	if password == "" {
		fieldErrors["password"] = "Password is required"
	} else if len(password) < 8 {
		fieldErrors["password"] = "Password must be at least 8 characters"
	}

	if password != passwordConfirm {
		fieldErrors["password_confirm"] = "Passwords do not match"
	}

	if len(fieldErrors) > 0 {
		h.renderRegisterError(w, r, "", username, displayName, fieldErrors)
		return
	}

	clientID := sharedmw.GetClientID(r.Context())
	session, err := h.authService.Register(r.Context(), clientID, username, password, displayName)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameExists) {
			fieldErrors["username"] = "Username already taken"
			h.renderRegisterError(w, r, "", username, displayName, fieldErrors)
		} else {
			h.renderRegisterError(w, r, "Registration failed: "+err.Error(), username, displayName, nil)
		}
		return
	}

	if !h.startAuth(w, r, session) {
		return
	}
	redirectWithFlash(w, r, h.guard.LandingPath(), middleware.FlashSuccess, "Account created! Welcome, "+session.Identity.DisplayName+"!")
}

// Logout handles POST /auth/logout in any mode
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetAuthSession(r.Context()); session != nil {
		h.authService.Logout(session.Token)
	}

	clientID := sharedmw.GetClientID(r.Context())
	err := h.manager.Do(r.Context(), clientID, func(p *player.Player) error {
		p.Session.EndSession()
		return nil
	})
	if err != nil {
		h.logger.Error("failed to end session", slog.String("error", err.Error()))
	}

	clearSessionCookie(w)
	redirectWithFlash(w, r, "/", middleware.FlashInfo, "You have been signed out")
}

// startAuth moves the client to auth mode and stores the token cookie.
// It reports false after writing an error response.
func (h *AuthHandler) startAuth(w http.ResponseWriter, r *http.Request, session *auth.Session) bool {
	err := h.manager.Do(r.Context(), session.ClientID, func(p *player.Player) error {
		_, err := p.Session.StartAsAuth()
		return err
	})
	if err != nil {
		h.logger.Error("failed to start auth session", slog.String("error", err.Error()))
		h.authService.Logout(session.Token)
		redirectWithFlash(w, r, h.guard.LoginPath(), middleware.FlashError, "Could not start your session")
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

// isLocalPath rejects absolute and protocol-relative redirect targets
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "\\")
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, username, from string) {
	data := pages.LoginData{
		PageData: pageData(r, "Sign in"),
		Username: username,
		Error:    errorMsg,
		From:     from,
	}
	render(w, r, h.logger, http.StatusUnprocessableEntity, pages.Login(data))
}

func (h *AuthHandler) renderRegisterError(w http.ResponseWriter, r *http.Request, errorMsg, username, displayName string, fieldErrors map[string]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string]string)
	}

	data := pages.RegisterData{
		PageData:    pageData(r, "Create account"),
		Username:    username,
		DisplayName: displayName,
		Error:       errorMsg,
		FieldErrors: fieldErrors,
	}
	render(w, r, h.logger, http.StatusUnprocessableEntity, pages.Register(data))
}

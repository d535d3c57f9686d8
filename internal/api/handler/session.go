package handler

import (
	"context"
	"net/http"

	"github.com/valnor-game/valnor/internal/api/middleware"
	"github.com/valnor-game/valnor/internal/api/request"
	"github.com/valnor-game/valnor/internal/api/response"
	sharedmw "github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/auth"
	"github.com/valnor-game/valnor/internal/services/player"
)

// SessionHandler handles session mode endpoints
type SessionHandler struct {
	manager     *player.Manager
	authService *auth.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *player.Manager, authService *auth.Service) *SessionHandler {
	return &SessionHandler{
		manager:     manager,
		authService: authService,
	}
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID := sharedmw.GetClientID(r.Context())

	var state model.SessionState
	h.manager.Peek(r.Context(), clientID, func(p *player.Player) {
		state = p.Session.State()
	})

	response.JSON(w, http.StatusOK, response.SessionFromModel(state, middleware.GetIdentity(r.Context())))
}

// StartGuest handles POST /api/v1/session/guest
func (h *SessionHandler) StartGuest(w http.ResponseWriter, r *http.Request) {
	var req request.StartGuestRequest
	if err := decodeJSON(r, &req, true); err != nil {
		WriteError(w, err)
		return
	}

	clientID := sharedmw.GetClientID(r.Context())
	var state model.SessionState
	err := h.manager.Do(r.Context(), clientID, func(p *player.Player) error {
		var err error
		state, err = p.Session.StartAsGuest(req.Name)
		return err
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	// A signed-in client switching to guest gives up its token. The mode has already
	// left auth, so the sign-out notification finds nothing to end.
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.Logout(session.Token)
		clearSessionCookie(w)
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(state, nil))
}

// Register handles POST /api/v1/session/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	clientID := sharedmw.GetClientID(r.Context())
	session, err := h.authService.Register(r.Context(), clientID, req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.startAuth(r.Context(), w, session, http.StatusCreated)
}

// Login handles POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		WriteError(w, err)
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	clientID := sharedmw.GetClientID(r.Context())
	session, err := h.authService.Login(r.Context(), clientID, req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.startAuth(r.Context(), w, session, http.StatusOK)
}

// Logout handles POST /api/v1/session/logout. It is safe to call in any mode.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clientID := sharedmw.GetClientID(r.Context())

	var ended bool
	h.manager.Peek(r.Context(), clientID, func(p *player.Player) {
		ended = p.Session.Mode() != model.ModeNone
	})

	// Revoke first: the sign-out listener may already end the session
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.Logout(session.Token)
	}

	var state model.SessionState
	err := h.manager.Do(r.Context(), clientID, func(p *player.Player) error {
		p.Session.EndSession()
		state = p.Session.State()
		return nil
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	clearSessionCookie(w)
	response.JSON(w, http.StatusOK, response.LogoutResponse{
		Ended:   ended,
		Session: response.SessionFromModel(state, nil),
	})
}

// startAuth moves the client into auth mode once its identity is confirmed
func (h *SessionHandler) startAuth(ctx context.Context, w http.ResponseWriter, session *auth.Session, status int) {
	var state model.SessionState
	err := h.manager.Do(ctx, session.ClientID, func(p *player.Player) error {
		var err error
		state, err = p.Session.StartAsAuth()
		return err
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	response.JSON(w, status, response.AuthResponseFromSession(session, state))
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/auth"
	"github.com/valnor-game/valnor/internal/services/player"
)

// SessionCookie holds the auth token
const SessionCookie = "session"

type contextKey string

const (
	stateContextKey   contextKey = "session_state"
	sessionContextKey contextKey = "auth_session"
)

// Session loads the client's session state into the context. The auth cookie is
// validated before the client's state is touched; a client left in auth mode without
// a valid token is moved back to none.
func Session(authService *auth.Service, manager *player.Manager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientID := middleware.GetClientID(ctx)

			var session *auth.Session
			if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				if s, err := authService.ValidateSession(cookie.Value); err == nil && s.ClientID == clientID {
					session = s
				}
			}

			var state model.SessionState
			manager.Peek(ctx, clientID, func(p *player.Player) {
				state = p.Session.State()
			})

			if session == nil && state.Mode == model.ModeAuth {
				if err := manager.SyncIdentity(ctx, clientID, nil); err != nil {
					logger.Error("failed to reconcile session",
						slog.String("client_id", string(clientID)),
						slog.String("error", err.Error()))
				}
				manager.Peek(ctx, clientID, func(p *player.Player) {
					state = p.Session.State()
				})
			}

			ctx = context.WithValue(ctx, stateContextKey, state)
			if session != nil {
				ctx = context.WithValue(ctx, sessionContextKey, session)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionState returns the session state loaded for this request
func GetSessionState(ctx context.Context) model.SessionState {
	state, ok := ctx.Value(stateContextKey).(model.SessionState)
	if !ok {
		return model.DefaultSessionState()
	}
	return state
}

// GetAuthSession returns the validated auth session, or nil
func GetAuthSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// GetIdentity returns the signed-in identity, or nil
func GetIdentity(ctx context.Context) *model.Identity {
	session := GetAuthSession(ctx)
	if session == nil {
		return nil
	}
	identity := session.Identity
	return &identity
}

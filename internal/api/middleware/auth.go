package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/valnor-game/valnor/internal/api/apierr"
	"github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/auth"
	"github.com/valnor-game/valnor/internal/services/player"
)

// SessionCookie holds the auth token for browser clients
const SessionCookie = "session"

type contextKey string

const sessionContextKey contextKey = "session"

// Identity resolves the caller's auth token and keeps the client's session mode in
// line with it. A valid token issued to the calling client is stored in the context.
// A client in auth mode without one is moved back to none before the handler runs.
//
// Tokens are validated here, outside the client's lock, because expiring a token
// notifies listeners that take that lock themselves.
func Identity(authService *auth.Service, manager *player.Manager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientID := middleware.GetClientID(ctx)

			var session *auth.Session
			if token := ExtractToken(r); token != "" {
				if s, err := authService.ValidateSession(token); err == nil && s.ClientID == clientID {
					session = s
				}
			}

			if session != nil {
				ctx = context.WithValue(ctx, sessionContextKey, session)
			} else {
				var mode model.SessionMode
				manager.Peek(ctx, clientID, func(p *player.Player) {
					mode = p.Session.Mode()
				})
				if mode == model.ModeAuth {
					if err := manager.SyncIdentity(ctx, clientID, nil); err != nil {
						logger.Error("failed to reconcile session",
							slog.String("client_id", string(clientID)),
							slog.String("error", err.Error()))
						apierr.WriteError(w, apierr.NewInternalError())
						return
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the session token from the request
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the validated auth session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// GetIdentity returns the signed-in identity, or nil
func GetIdentity(ctx context.Context) *model.Identity {
	session := GetSession(ctx)
	if session == nil {
		return nil
	}
	identity := session.Identity
	return &identity
}

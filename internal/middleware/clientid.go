package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/valnor-game/valnor/internal/model"
)

const (
	// ClientIDHeader carries the client ID for non-browser callers
	ClientIDHeader = "X-Client-ID"
	// ClientIDCookie carries the client ID for browsers
	ClientIDCookie = "client_id"

	clientIDCookieMaxAge = 365 * 24 * time.Hour
	maxClientIDLength    = 64
)

type contextKey string

const clientIDContextKey contextKey = "client_id"

// ClientID identifies the calling client from the X-Client-ID header or the client_id
// cookie. Callers presenting neither, or a malformed value, are assigned a fresh ID,
// which is returned in both the header and a long-lived cookie.
func ClientID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(ClientIDHeader)
			if id == "" {
				if cookie, err := r.Cookie(ClientIDCookie); err == nil {
					id = cookie.Value
				}
			}

			if !validClientID(id) {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientIDCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(clientIDCookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			w.Header().Set(ClientIDHeader, id)

			ctx := WithClientID(r.Context(), model.ClientID(id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithClientID returns a context carrying id
func WithClientID(ctx context.Context, id model.ClientID) context.Context {
	return context.WithValue(ctx, clientIDContextKey, id)
}

// GetClientID returns the client ID from the request context, or "" if absent
func GetClientID(ctx context.Context) model.ClientID {
	id, _ := ctx.Value(clientIDContextKey).(model.ClientID)
	return id
}

// validClientID accepts short IDs made of letters, digits, '-' and '_'
func validClientID(id string) bool {
	if id == "" || len(id) > maxClientIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valnor-game/valnor/internal/web/templates/layout"
)

// Flash kinds, each styled by a flash-<kind> class
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

const (
	flashCookieName = "flash"
	flashContextKey = contextKey("flash")

	// Longer messages are cut so the cookie stays well under browser limits
	maxFlashRunes = 200
)

// GetFlash retrieves the flash message from the request context
// Returns nil if no flash message is set
func GetFlash(ctx context.Context) *layout.FlashMessage {
	flash, _ := ctx.Value(flashContextKey).(*layout.FlashMessage)
	return flash
}

// SetFlash sets a flash message to be displayed on the next request
func SetFlash(w http.ResponseWriter, kind, message string) {
	value := url.QueryEscape(flashKind(kind) + ":" + truncateFlash(message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Flash returns middleware that reads and clears flash messages
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var flash *layout.FlashMessage

			if cookie, err := r.Cookie(flashCookieName); err == nil && cookie.Value != "" {
				flash = parseFlash(cookie.Value)

				// Shown once
				http.SetCookie(w, &http.Cookie{
					Name:     flashCookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					Expires:  time.Unix(0, 0),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), flashContextKey, flash)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseFlash decodes a kind:message cookie value. The cookie is client controlled,
// so the kind is normalized before it reaches a class attribute.
func parseFlash(value string) *layout.FlashMessage {
	if decoded, err := url.QueryUnescape(value); err == nil {
		value = decoded
	}
	kind, message, found := strings.Cut(value, ":")
	if !found {
		return &layout.FlashMessage{Type: FlashInfo, Message: truncateFlash(value)}
	}
	return &layout.FlashMessage{Type: flashKind(kind), Message: truncateFlash(message)}
}

func flashKind(kind string) string {
	switch kind {
	case FlashSuccess, FlashError, FlashWarning, FlashInfo:
		return kind
	default:
		return FlashInfo
	}
}

func truncateFlash(message string) string {
	runes := []rune(message)
	if len(runes) <= maxFlashRunes {
		return message
	}
	return string(runes[:maxFlashRunes-1]) + "…"
}

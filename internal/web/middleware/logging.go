package middleware

import (
	"log/slog"
	"net/http"

	"github.com/valnor-game/valnor/internal/middleware"
)

// Logging creates logging middleware for the web interface
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// ClientID identifies the browser, minting a cookie on first visit
func ClientID() func(http.Handler) http.Handler {
	return middleware.ClientID()
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/valnor-game/valnor/internal/middleware"
)

// Logging creates request logging middleware for the API
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}

// ClientID identifies the calling client
func ClientID() func(http.Handler) http.Handler {
	return middleware.ClientID()
}

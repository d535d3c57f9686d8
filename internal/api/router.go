package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/valnor-game/valnor/internal/api/apierr"
	"github.com/valnor-game/valnor/internal/api/handler"
	"github.com/valnor-game/valnor/internal/api/middleware"
	"github.com/valnor-game/valnor/internal/api/response"
	"github.com/valnor-game/valnor/internal/dependencies/clock"
	sharedmw "github.com/valnor-game/valnor/internal/middleware"
	"github.com/valnor-game/valnor/internal/services/auth"
	"github.com/valnor-game/valnor/internal/services/guard"
	"github.com/valnor-game/valnor/internal/services/player"
	"github.com/valnor-game/valnor/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	Clock         clock.Clock
	AuthService   *auth.Service
	PlayerManager *player.Manager
	Guard         *guard.Guard
	HubManager    *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	Register(api, cfg)
	return r
}

// Register mounts the API routes on an existing /api/v1 subrouter
func Register(api *mux.Router, cfg RouterConfig) {
	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.PlayerManager, cfg.AuthService)
	accessHandler := handler.NewAccessHandler(cfg.PlayerManager, cfg.Guard)
	resourcesHandler := handler.NewResourcesHandler(cfg.PlayerManager, cfg.Guard, cfg.Clock)
	teamHandler := handler.NewTeamHandler(cfg.PlayerManager)
	preferenceHandler := handler.NewPreferenceHandler(cfg.PlayerManager)
	eventsHandler := handler.NewEventsHandler(cfg.HubManager)

	// Common middleware
	api.Use(sharedmw.Recovery(cfg.Logger, writePanicError))
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.ClientID())

	// Health check endpoint (no client state)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Everything below reads or writes the calling client's state
	client := api.NewRoute().Subrouter()
	client.Use(middleware.Identity(cfg.AuthService, cfg.PlayerManager, cfg.Logger))

	// Session routes
	client.HandleFunc("/session", sessionHandler.Get).Methods(http.MethodGet)
	client.HandleFunc("/session/guest", sessionHandler.StartGuest).Methods(http.MethodPost)
	client.HandleFunc("/session/register", sessionHandler.Register).Methods(http.MethodPost)
	client.HandleFunc("/session/login", sessionHandler.Login).Methods(http.MethodPost)
	client.HandleFunc("/session/logout", sessionHandler.Logout).Methods(http.MethodPost)

	// Route guard
	client.HandleFunc("/access", accessHandler.Check).Methods(http.MethodGet)

	// Resource routes
	client.HandleFunc("/resources", resourcesHandler.Get).Methods(http.MethodGet)
	client.HandleFunc("/resources/energy/consume", resourcesHandler.ConsumeEnergy).Methods(http.MethodPost)
	client.HandleFunc("/resources/energy/add", resourcesHandler.AddEnergy).Methods(http.MethodPost)
	client.HandleFunc("/resources/gold/spend", resourcesHandler.SpendGold).Methods(http.MethodPost)

	// Team routes
	client.HandleFunc("/team", teamHandler.Get).Methods(http.MethodGet)
	client.HandleFunc("/team/{slot}", teamHandler.Assign).Methods(http.MethodPut)
	client.HandleFunc("/team/{slot}", teamHandler.Remove).Methods(http.MethodDelete)

	// Preference routes
	client.HandleFunc("/preferences/game-mode", preferenceHandler.GetGameMode).Methods(http.MethodGet)
	client.HandleFunc("/preferences/game-mode", preferenceHandler.SetGameMode).Methods(http.MethodPut)

	// Event stream
	client.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writePanicError answers a panicking API request with the JSON internal error
func writePanicError(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

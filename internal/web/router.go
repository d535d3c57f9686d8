package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/valnor-game/valnor/internal/dependencies/clock"
	"github.com/valnor-game/valnor/internal/services/auth"
	"github.com/valnor-game/valnor/internal/services/guard"
	"github.com/valnor-game/valnor/internal/services/player"
	"github.com/valnor-game/valnor/internal/web/handler"
	"github.com/valnor-game/valnor/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger        *slog.Logger
	Clock         clock.Clock
	AuthService   *auth.Service
	PlayerManager *player.Manager
	Guard         *guard.Guard
	StaticDir     string // Path to static files directory
}

// Catalog pages rendered by the section handler
var sectionRoutes = []string{
	"/shop", "/inventory", "/heroes", "/leaderboard",
	"/dungeon", "/pvp", "/guild", "/marketplace",
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	clientIDMiddleware := middleware.ClientID()
	flashMiddleware := middleware.Flash()
	sessionMiddleware := middleware.Session(cfg.AuthService, cfg.PlayerManager, cfg.Logger)
	guardMiddleware := middleware.Guard(cfg.Guard)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(clientIDMiddleware)
	r.Use(flashMiddleware)
	r.Use(sessionMiddleware)

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.Logger)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.PlayerManager, cfg.Guard, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.PlayerManager, cfg.Clock, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Session actions work in every mode
	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/guest", authHandler.StartGuest).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Every page is routed through the guard
	pages := r.NewRoute().Subrouter()
	pages.Use(guardMiddleware)

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/about", homeHandler.About).Methods(http.MethodGet)
	pages.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	pages.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	pages.HandleFunc("/register", authHandler.RegisterPage).Methods(http.MethodGet)
	pages.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)

	pages.HandleFunc("/dashboard", gameHandler.Dashboard).Methods(http.MethodGet)
	pages.HandleFunc("/team", gameHandler.Team).Methods(http.MethodGet)
	pages.HandleFunc("/team", gameHandler.AssignHero).Methods(http.MethodPost)
	pages.HandleFunc("/team/remove", gameHandler.RemoveHero).Methods(http.MethodPost)
	pages.HandleFunc("/battle", gameHandler.Battle).Methods(http.MethodGet)
	pages.HandleFunc("/battle", gameHandler.Fight).Methods(http.MethodPost)
	pages.HandleFunc("/settings", gameHandler.Settings).Methods(http.MethodGet)
	pages.HandleFunc("/settings", gameHandler.SaveSettings).Methods(http.MethodPost)

	for _, route := range sectionRoutes {
		pages.HandleFunc(route, gameHandler.Section(route)).Methods(http.MethodGet)
	}
	pages.HandleFunc("/shop/buy", gameHandler.Buy("/shop")).Methods(http.MethodPost)
	pages.HandleFunc("/marketplace/buy", gameHandler.Buy("/marketplace")).Methods(http.MethodPost)

	// Router middleware does not wrap the not-found handler
	var notFound http.Handler = http.HandlerFunc(homeHandler.NotFound)
	for _, mw := range []mux.MiddlewareFunc{sessionMiddleware, flashMiddleware, clientIDMiddleware, loggingMiddleware, recoveryMiddleware} {
		notFound = mw(notFound)
	}
	r.NotFoundHandler = notFound

	return r
}

package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/valnor-game/valnor/internal/config"
	"github.com/valnor-game/valnor/internal/dependencies/clock"
	"github.com/valnor-game/valnor/internal/dependencies/random"
	"github.com/valnor-game/valnor/internal/services/auth"
	"github.com/valnor-game/valnor/internal/services/guard"
	"github.com/valnor-game/valnor/internal/services/player"
	"github.com/valnor-game/valnor/internal/storage"
	"github.com/valnor-game/valnor/internal/storage/memory"
	redisstorage "github.com/valnor-game/valnor/internal/storage/redis"
	"github.com/valnor-game/valnor/internal/storage/sqlite"
	"github.com/valnor-game/valnor/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
	StorageTypeSQLite = config.StorageSQLite
)

const (
	// sessionCleanupInterval is how often expired auth tokens are swept
	sessionCleanupInterval = time.Minute
	// evictionInterval is how often idle clients are dropped from memory
	evictionInterval = time.Minute
	// defaultPlayerIdleTimeout is how long a client stays in memory without requests
	defaultPlayerIdleTimeout = 30 * time.Minute
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Guard         *guard.Guard
	AuthService   *auth.Service
	PlayerManager *player.Manager
	HubManager    *sse.HubManager
	Broadcaster   *sse.Broadcaster

	idleTimeout time.Duration
	logger      *slog.Logger
	unsubscribe func()
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// PlayerConfig holds the resource defaults for new players (optional)
	PlayerConfig player.Config
	// GuardConfig holds the route tables (optional)
	GuardConfig guard.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// PlayerIdleTimeout is how long an untouched client stays in memory (optional)
	// If zero, defaults to 30 minutes
	PlayerIdleTimeout time.Duration
}

// ConfigFromEnv maps the environment configuration onto a factory Config
func ConfigFromEnv(env config.Config, logger *slog.Logger) Config {
	cfg := Config{
		AuthConfig:        auth.Config{SessionDuration: env.SessionDuration},
		Logger:            logger,
		StorageType:       env.StorageType,
		SQLitePath:        env.SQLitePath,
		PlayerIdleTimeout: env.PlayerIdleTimeout,
	}
	cfg.PlayerConfig = player.DefaultConfig()
	cfg.PlayerConfig.Resources.MaxEnergy = env.MaxEnergy
	cfg.PlayerConfig.Resources.EnergyRegenMinutes = env.EnergyRegenMinutes
	cfg.PlayerConfig.Resources.StartingGold = env.StartingGold
	cfg.PlayerConfig.Resources.StartingGems = env.StartingGems

	if env.StorageType == StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = env.RedisURL
		redisCfg.SnapshotTTL = env.SnapshotTTL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg, logger), nil
}

func openStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return store, nil
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *App {
	// Fill zero configs from defaults
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	playerCfg := cfg.PlayerConfig
	if playerCfg.Resources.MaxEnergy == 0 {
		playerCfg = player.DefaultConfig()
	}
	idleTimeout := cfg.PlayerIdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = defaultPlayerIdleTimeout
	}

	// Create services
	guardService := guard.New(cfg.GuardConfig)
	authService := auth.New(store, clk, logger, authCfg)
	playerManager := player.NewManager(store, clk, rnd, logger, playerCfg)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	// Client events stream to open SSE connections; sign-outs end auth sessions
	playerManager.SetEventSink(broadcaster.Publish)
	unsubscribe := authService.Subscribe(playerManager.HandleIdentityChange)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		Guard:         guardService,
		AuthService:   authService,
		PlayerManager: playerManager,
		HubManager:    hubManager,
		Broadcaster:   broadcaster,
		idleTimeout:   idleTimeout,
		logger:        logger,
		unsubscribe:   unsubscribe,
	}
}

// RunBackground sweeps expired auth tokens, idle clients and idle SSE hubs until ctx
// is done
func (a *App) RunBackground(ctx context.Context) {
	go a.AuthService.RunCleanup(ctx, sessionCleanupInterval)
	go a.PlayerManager.RunEviction(ctx, evictionInterval, a.idleTimeout)

	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.HubManager.CleanupEmptyHubs(); n > 0 {
				a.logger.Debug("idle sse hubs removed", slog.Int("count", n))
			}
		}
	}
}

// Close releases streams and the storage backend
func (a *App) Close() error {
	a.unsubscribe()
	a.HubManager.CloseAll()
	return a.Storage.Close()
}

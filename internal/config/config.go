// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config is the server configuration
type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"8080"`

	HTTPReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT"  envDefault:"15s"`
	HTTPWriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT"  envDefault:"2m"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT"   envDefault:"30s"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	StorageType string        `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string        `env:"REDIS_URL"    envDefault:"redis://localhost:6379"`
	SQLitePath  string        `env:"SQLITE_PATH"  envDefault:"data/valnor.db"`
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"720h"`

	SessionDuration   time.Duration `env:"SESSION_DURATION"    envDefault:"24h"`
	PlayerIdleTimeout time.Duration `env:"PLAYER_IDLE_TIMEOUT" envDefault:"30m"`

	MaxEnergy          int     `env:"DEFAULT_MAX_ENERGY"   envDefault:"100"`
	EnergyRegenMinutes float64 `env:"ENERGY_REGEN_MINUTES" envDefault:"5"`
	StartingGold       int     `env:"STARTING_GOLD"        envDefault:"1000"`
	StartingGems       int     `env:"STARTING_GEMS"        envDefault:"50"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the server configuration
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the services cannot run with
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory, StorageRedis, StorageSQLite:
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis or sqlite", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.HTTPReadTimeout < 0 || c.HTTPWriteTimeout < 0 || c.HTTPIdleTimeout < 0 || c.ShutdownTimeout < 0 {
		return fmt.Errorf("HTTP timeouts must not be negative")
	}
	if c.MaxEnergy <= 0 {
		return fmt.Errorf("DEFAULT_MAX_ENERGY must be positive, got %d", c.MaxEnergy)
	}
	if c.EnergyRegenMinutes <= 0 {
		return fmt.Errorf("ENERGY_REGEN_MINUTES must be positive, got %v", c.EnergyRegenMinutes)
	}
	if c.PlayerIdleTimeout <= 0 {
		return fmt.Errorf("PLAYER_IDLE_TIMEOUT must be positive, got %s", c.PlayerIdleTimeout)
	}
	if c.StartingGold < 0 || c.StartingGems < 0 {
		return fmt.Errorf("starting currency must not be negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: must be json or text", c.LogFormat)
	}
	return nil
}

// SlogLevel converts LogLevel to a slog.Level
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/mountainshoot/internal/model"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Server is the server configuration
type Server struct {
	Host string `env:"MSHOOT_HOST"`
	Port int    `env:"MSHOOT_PORT" envDefault:"8080"`

	StorageType string `env:"MSHOOT_STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"MSHOOT_REDIS_URL"`
	SQLitePath  string `env:"MSHOOT_SQLITE_PATH" envDefault:"mountainshoot.db"`

	LogLevel string `env:"MSHOOT_LOG_LEVEL" envDefault:"info"`

	// Settings for sessions created without explicit values
	DefaultWinLimit   int           `env:"MSHOOT_DEFAULT_WIN_LIMIT" envDefault:"3"`
	DefaultTurnLimit  time.Duration `env:"MSHOOT_DEFAULT_TURN_LIMIT" envDefault:"0s"`
	DefaultDifficulty string        `env:"MSHOOT_DEFAULT_DIFFICULTY" envDefault:"medium"`
}

// Load parses the server configuration from the environment and validates it
func Load() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot
func (c Server) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("MSHOOT_PORT out of range: %d", c.Port)
	}

	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("MSHOOT_REDIS_URL required when MSHOOT_STORAGE_TYPE=%s", StorageRedis)
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("MSHOOT_SQLITE_PATH required when MSHOOT_STORAGE_TYPE=%s", StorageSQLite)
		}
	default:
		return fmt.Errorf("invalid MSHOOT_STORAGE_TYPE %q: must be memory, redis or sqlite", c.StorageType)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if c.DefaultWinLimit < 0 {
		return fmt.Errorf("MSHOOT_DEFAULT_WIN_LIMIT must not be negative: %d", c.DefaultWinLimit)
	}
	if c.DefaultTurnLimit < 0 {
		return fmt.Errorf("MSHOOT_DEFAULT_TURN_LIMIT must not be negative: %s", c.DefaultTurnLimit)
	}
	if !model.Difficulty(c.DefaultDifficulty).Valid() {
		return fmt.Errorf("invalid MSHOOT_DEFAULT_DIFFICULTY %q", c.DefaultDifficulty)
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error")
func (c Server) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid MSHOOT_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// DefaultSettings returns the settings applied to new sessions
func (c Server) DefaultSettings() model.Settings {
	return model.Settings{
		WinLimit:      c.DefaultWinLimit,
		TurnTimeLimit: c.DefaultTurnLimit,
		Difficulty:    model.Difficulty(c.DefaultDifficulty),
	}
}

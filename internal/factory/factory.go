package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/mountainshoot/internal/api/response"
	"github.com/mcoot/mountainshoot/internal/config"
	"github.com/mcoot/mountainshoot/internal/dependencies/clock"
	"github.com/mcoot/mountainshoot/internal/dependencies/random"
	"github.com/mcoot/mountainshoot/internal/services/game"
	"github.com/mcoot/mountainshoot/internal/sse"
	"github.com/mcoot/mountainshoot/internal/storage"
	"github.com/mcoot/mountainshoot/internal/storage/memory"
	redisstorage "github.com/mcoot/mountainshoot/internal/storage/redis"
	"github.com/mcoot/mountainshoot/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Controller *game.Controller
	HubManager *sse.HubManager

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
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
}

// ConfigFromServer builds a factory config from the environment configuration
func ConfigFromServer(cfg config.Server, logger *slog.Logger) Config {
	fc := Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		SQLitePath:  cfg.SQLitePath,
	}
	if cfg.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageMemory
	}

	var (
		store  storage.Storage
		closer io.Closer
	)
	switch storageType {
	case config.StorageMemory:
		store = memory.New()
	case config.StorageRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store, closer = redisStore, redisStore
	case config.StorageSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store, closer = sqliteStore, sqliteStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis or sqlite", storageType)
	}

	logger.Info("storage ready", slog.String("type", storageType))

	app := newWithDependencies(store, clock.New(), random.New(), logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	hubManager := sse.NewHubManager(response.NewStateEncoder(clk), logger)
	controller := game.NewController(store, clk, rnd, hubManager, logger)

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		Controller: controller,
		HubManager: hubManager,
	}
}

// Close releases the storage connection, if any
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

package factory

import (
	"errors"
	"io"
	"log/slog"

	"roomd/internal/dependencies/clock"
	"roomd/internal/dependencies/random"
	"roomd/internal/dispatch"
	"roomd/internal/services/expiry"
	"roomd/internal/services/identity"
	"roomd/internal/services/room"
	"roomd/internal/sse"
	"roomd/internal/storage"
	"roomd/internal/storage/memory"
	redisstorage "roomd/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	IdentityService *identity.Service
	ExpiryScheduler *expiry.Scheduler
	RoomController  *room.Controller
	HubManager      *sse.HubManager
	Dispatcher      *dispatch.Dispatcher
}

// Config holds configuration for the application factory
type Config struct {
	// IdentityConfig holds configuration for the identity service (optional)
	// If zero value, defaults to identity.DefaultConfig()
	IdentityConfig identity.Config
	// RoomConfig holds configuration for the room controller (optional)
	// If zero value, defaults to room.DefaultConfig()
	RoomConfig room.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.IdentityConfig, cfg.RoomConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	identityCfg identity.Config,
	roomCfg room.Config,
	logger *slog.Logger,
) *App {
	identityService := identity.New(store, clk, identityCfg, logger)
	scheduler := expiry.New(clk, logger)
	roomController := room.NewController(store, scheduler, clk, rnd, roomCfg, logger)
	hubManager := sse.NewHubManager(logger)
	dispatcher := dispatch.New(roomController, hubManager, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		IdentityService: identityService,
		ExpiryScheduler: scheduler,
		RoomController:  roomController,
		HubManager:      hubManager,
		Dispatcher:      dispatcher,
	}
}

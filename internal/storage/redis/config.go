package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// RoomTTL is a safety-net expiry on room keys. Rooms are normally
	// reclaimed by the expiry reaper well before this.
	RoomTTL time.Duration

	// IdentityTTL bounds how long an idle identity record is kept.
	// Zero means identities are never expired.
	IdentityTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		RoomTTL:      24 * time.Hour,
		IdentityTTL:  0,
	}
}

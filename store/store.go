// Package store persists twin readings and serves the time-range queries
// the evaluator and the dashboard API run. The canonical backend is a
// MongoDB collection of reading documents; an in-memory implementation
// covers tests and local runs without a database.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/luxtwin/luxtwin/twin"
)

// ErrNotFound is returned by point lookups that match no reading.
var ErrNotFound = errors.New("reading not found")

// Store provider names accepted by Open.
const (
	ProviderMongo  = "mongo"
	ProviderMemory = "memory"
)

// Store is the persistence surface for twin readings.
type Store interface {
	// EnsureIndexes creates the range-query indexes on backends that have
	// them. Safe to call repeatedly.
	EnsureIndexes(ctx context.Context) error

	// InsertReadings writes a batch of readings. Batches arrive in
	// timestamp order and are written in order; an empty batch is a no-op.
	InsertReadings(ctx context.Context, readings []twin.Reading) error

	// Readings returns the device's readings with ts in [start, end),
	// ascending by timestamp, capped at limit when limit > 0.
	Readings(ctx context.Context, deviceID string, start, end time.Time, limit int64) ([]twin.Reading, error)

	// LatestReading returns the most recent reading for the device, or
	// ErrNotFound when the device has none.
	LatestReading(ctx context.Context, deviceID string) (*twin.Reading, error)

	Close(ctx context.Context) error
}

// Config selects and parameterizes a store backend.
type Config struct {
	Provider   string
	URI        string
	Database   string
	Collection string
}

// ConfigFromEnv builds a mongo-backed config from the environment.
// MONGO_URI is required; DB_NAME and COLLECTION have defaults matching the
// seeded deployment.
func ConfigFromEnv() (Config, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return Config{}, errors.New("missing MONGO_URI (check environment)")
	}
	return Config{
		Provider:   ProviderMongo,
		URI:        uri,
		Database:   envOr("DB_NAME", "light_sensor_db"),
		Collection: envOr("COLLECTION", "readings"),
	}, nil
}

// Open connects the configured backend. Mongo connections are verified
// with a ping before use so a dead database fails startup instead of the
// first write.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Provider {
	case ProviderMemory:
		return NewMemory(), nil
	case ProviderMongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store provider %q (available: mongo, memory)", cfg.Provider)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

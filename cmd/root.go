package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/luxtwin/luxtwin/store"
	"github.com/luxtwin/luxtwin/twin"
)

var logLevel string

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "luxtwin",
	Short: "Digital twin simulator and evaluator for ambient light sensors",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// loadTwinConfig resolves the twin configuration for a command: YAML file
// when given, defaults otherwise, with device/room flag overrides applied
// on top.
func loadTwinConfig(path, device, room string) (twin.Config, error) {
	cfg := twin.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = twin.LoadConfig(path)
		if err != nil {
			return twin.Config{}, err
		}
	}
	if device != "" {
		cfg.DeviceID = device
	}
	if room != "" {
		cfg.RoomID = room
	}
	if err := cfg.Validate(); err != nil {
		return twin.Config{}, err
	}
	return cfg, nil
}

// parseStartFlag parses an RFC 3339 --start value. An empty value means
// the current hour, UTC.
func parseStartFlag(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC().Truncate(time.Hour), nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --start: %w", err)
	}
	return ts.UTC(), nil
}

// seriesOptions builds generation options from the shared seed and
// cloud-cover flags. A negative cloud cover selects random skies.
func seriesOptions(seed int64, cloudCover float64) twin.SeriesOptions {
	opts := twin.SeriesOptions{Seed: seed}
	if cloudCover >= 0 {
		opts.CloudCover = twin.ConstantCloudCover(cloudCover)
	}
	return opts
}

// defaultDevice picks the device queried when no --device flag is given.
func defaultDevice() string {
	if v := os.Getenv("DEVICE_ID"); v != "" {
		return v
	}
	return "ls-100-0001"
}

// openStore connects to the document store named by --store. The memory
// provider needs no environment; mongo reads its connection settings from
// MONGO_URI, DB_NAME and COLLECTION.
func openStore(ctx context.Context, provider string) (store.Store, error) {
	if provider == store.ProviderMemory {
		return store.Open(ctx, store.Config{Provider: store.ProviderMemory})
	}
	cfg, err := store.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg)
}

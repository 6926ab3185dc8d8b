package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luxtwin/luxtwin/store"
	"github.com/luxtwin/luxtwin/twin"
)

const seedConcurrency = 8

var (
	seedConfigPath string
	seedDevice     string
	seedRoom       string
	seedStart      string
	seedMinutes    int
	seedSeed       int64
	seedCloudCover float64
	seedDevices    int
	seedProvider   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate readings and load them into the document store",
	Long: `Seed generates one reading series per device and inserts the results
into the document store. With --devices above one, a fleet of devices with
derived IDs is seeded concurrently; each device keeps its own deterministic
reading stream.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadTwinConfig(seedConfigPath, seedDevice, seedRoom)
		if err != nil {
			logrus.Fatalf("Invalid twin config: %v", err)
		}
		start, err := parseStartFlag(seedStart)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if seedDevices < 1 {
			logrus.Fatalf("Invalid --devices %d: must be at least 1", seedDevices)
		}

		st, err := openStore(ctx, seedProvider)
		if err != nil {
			logrus.Fatalf("Store: %v", err)
		}
		defer st.Close(context.Background())

		duration := time.Duration(seedMinutes) * time.Minute
		if seedDevices == 1 {
			if err := seedOne(ctx, st, cfg, start, duration); err != nil {
				logrus.Fatalf("Seeding failed: %v", err)
			}
			return
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(seedConcurrency)
		for i := 0; i < seedDevices; i++ {
			devCfg := cfg
			devCfg.DeviceID = fmt.Sprintf("%s-%s", cfg.DeviceID, uuid.NewString()[:8])
			g.Go(func() error {
				return seedOne(gctx, st, devCfg, start, duration)
			})
		}
		if err := g.Wait(); err != nil {
			logrus.Fatalf("Fleet seeding failed: %v", err)
		}
		logrus.Infof("seeded %d devices", seedDevices)
	},
}

func seedOne(ctx context.Context, st store.Store, cfg twin.Config, start time.Time, duration time.Duration) error {
	readings, err := twin.GenerateSeries(start, duration, cfg, seriesOptions(seedSeed, seedCloudCover))
	if err != nil {
		return fmt.Errorf("device %s: %w", cfg.DeviceID, err)
	}
	if err := st.InsertReadings(ctx, readings); err != nil {
		return fmt.Errorf("device %s: %w", cfg.DeviceID, err)
	}
	logrus.Infof("inserted %d readings for device %s", len(readings), cfg.DeviceID)
	return nil
}

func init() {
	seedCmd.Flags().StringVarP(&seedConfigPath, "config", "c", "", "Path to twin config YAML (defaults apply when omitted)")
	seedCmd.Flags().StringVar(&seedDevice, "device", "", "Override the configured device ID")
	seedCmd.Flags().StringVar(&seedRoom, "room", "", "Override the configured room ID")
	seedCmd.Flags().StringVar(&seedStart, "start", "", "Series start as RFC 3339 (default: current hour, UTC)")
	seedCmd.Flags().IntVar(&seedMinutes, "minutes", 1440, "Length of each series in minutes")
	seedCmd.Flags().Int64Var(&seedSeed, "seed", 42, "Master seed; device IDs keep streams distinct")
	seedCmd.Flags().Float64Var(&seedCloudCover, "cloud-cover", -1, "Fixed cloud cover in [0,1]; negative means random per reading")
	seedCmd.Flags().IntVar(&seedDevices, "devices", 1, "Number of devices to seed; above 1 derives per-device IDs")
	seedCmd.Flags().StringVar(&seedProvider, "store", store.ProviderMongo, "Store provider (mongo or memory; memory is a dry run)")
	rootCmd.AddCommand(seedCmd)
}

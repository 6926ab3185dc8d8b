package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/luxtwin/luxtwin/stream"
	"github.com/luxtwin/luxtwin/twin"
)

var (
	streamConfigPath string
	streamDevice     string
	streamRoom       string
	streamStart      string
	streamMinutes    int
	streamSeed       int64
	streamCloudCover float64
	streamBrokers    []string
	streamTopic      string
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Generate readings and publish them to Kafka",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadTwinConfig(streamConfigPath, streamDevice, streamRoom)
		if err != nil {
			logrus.Fatalf("Invalid twin config: %v", err)
		}
		start, err := parseStartFlag(streamStart)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		duration := time.Duration(streamMinutes) * time.Minute
		readings, err := twin.GenerateSeries(start, duration, cfg, seriesOptions(streamSeed, streamCloudCover))
		if err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}

		brokers := streamBrokers
		if len(brokers) == 0 {
			brokers = stream.BrokersFromEnv()
		}
		pub := stream.NewPublisher(brokers, streamTopic)
		defer pub.Close()

		if err := pub.PublishSeries(ctx, readings); err != nil {
			logrus.Fatalf("Publishing: %v", err)
		}
	},
}

func init() {
	streamCmd.Flags().StringVarP(&streamConfigPath, "config", "c", "", "Path to twin config YAML (defaults apply when omitted)")
	streamCmd.Flags().StringVar(&streamDevice, "device", "", "Override the configured device ID")
	streamCmd.Flags().StringVar(&streamRoom, "room", "", "Override the configured room ID")
	streamCmd.Flags().StringVar(&streamStart, "start", "", "Series start as RFC 3339 (default: current hour, UTC)")
	streamCmd.Flags().IntVar(&streamMinutes, "minutes", 1440, "Length of the series in minutes")
	streamCmd.Flags().Int64Var(&streamSeed, "seed", 42, "Master seed for the reading stream")
	streamCmd.Flags().Float64Var(&streamCloudCover, "cloud-cover", -1, "Fixed cloud cover in [0,1]; negative means random per reading")
	streamCmd.Flags().StringSliceVar(&streamBrokers, "brokers", nil, "Kafka broker addresses (default $KAFKA_BROKERS or localhost:9092)")
	streamCmd.Flags().StringVar(&streamTopic, "topic", stream.DefaultTopic, "Kafka topic for published readings")
	rootCmd.AddCommand(streamCmd)
}

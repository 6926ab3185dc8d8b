package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/luxtwin/luxtwin/store"
	"github.com/luxtwin/luxtwin/twin/eval"
)

var (
	evaluateDevice   string
	evaluateHours    int
	evaluateTol      float64
	evaluateProvider string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score stored readings against the twin's predictions",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, evaluateProvider)
		if err != nil {
			logrus.Fatalf("Store: %v", err)
		}
		defer st.Close(context.Background())

		end := time.Now().UTC().Truncate(time.Minute)
		start := end.Add(-time.Duration(evaluateHours) * time.Hour)
		readings, err := st.Readings(ctx, evaluateDevice, start, end, 0)
		if err != nil {
			logrus.Fatalf("Fetching readings: %v", err)
		}
		logrus.Debugf("fetched %d readings for device %s in [%s, %s)",
			len(readings), evaluateDevice, start.Format(time.RFC3339), end.Format(time.RFC3339))

		eval.Evaluate(readings, evaluateTol).Print(os.Stdout)
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateDevice, "device", defaultDevice(), "Device ID to evaluate")
	evaluateCmd.Flags().IntVar(&evaluateHours, "hours", 24, "Evaluation window ending now, in hours")
	evaluateCmd.Flags().Float64Var(&evaluateTol, "tol", eval.DefaultTolLux, "Tolerance band around predictions, in lux")
	evaluateCmd.Flags().StringVar(&evaluateProvider, "store", store.ProviderMongo, "Store provider (mongo or memory)")
	rootCmd.AddCommand(evaluateCmd)
}

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/luxtwin/luxtwin/server"
	"github.com/luxtwin/luxtwin/store"
)

var (
	serveAddr     string
	serveDevice   string
	serveProvider string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard query API over HTTP",
	Long: `Serve exposes stored readings over HTTP for dashboards: recent windows,
evaluation reports, summary stats, the latest reading with a status band,
plus health and Prometheus metrics endpoints. The server shuts down
gracefully on SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, serveProvider)
		if err != nil {
			logrus.Fatalf("Store: %v", err)
		}
		defer st.Close(context.Background())

		addr := serveAddr
		if addr == "" {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			addr = ":" + port
		}

		srv := server.New(st, serveDevice)
		if err := srv.Run(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :$PORT, falling back to :8080)")
	serveCmd.Flags().StringVar(&serveDevice, "device", defaultDevice(), "Device ID served when requests omit one")
	serveCmd.Flags().StringVar(&serveProvider, "store", store.ProviderMongo, "Store provider (mongo or memory)")
	rootCmd.AddCommand(serveCmd)
}

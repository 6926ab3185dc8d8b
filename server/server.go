// Package server exposes the twin's stored readings over a JSON dashboard
// API: raw reading windows, on-demand evaluation, window statistics and the
// latest reading with a presentation status. Instrumented with Prometheus
// and wrapped in request logging.
package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/luxtwin/luxtwin/store"
)

// Server serves the dashboard API on top of a reading store.
type Server struct {
	store         store.Store
	metrics       *Metrics
	defaultDevice string
}

// New builds a Server. defaultDevice is used when requests omit device_id.
func New(st store.Store, defaultDevice string) *Server {
	return &Server{
		store:         st,
		metrics:       NewMetrics(),
		defaultDevice: defaultDevice,
	}
}

// Router wires every route, with per-route instrumentation.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/api/readings", s.metrics.WrapHandler("readings", http.HandlerFunc(s.handleReadings))).Methods(http.MethodGet)
	r.Handle("/api/evaluation", s.metrics.WrapHandler("evaluation", http.HandlerFunc(s.handleEvaluation))).Methods(http.MethodGet)
	r.Handle("/api/stats", s.metrics.WrapHandler("stats", http.HandlerFunc(s.handleStats))).Methods(http.MethodGet)
	r.Handle("/api/latest", s.metrics.WrapHandler("latest", http.HandlerFunc(s.handleLatest))).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	return r
}

// Run serves the API until the context is canceled, then shuts down
// gracefully with a 10 second drain window.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: handlers.LoggingHandler(os.Stdout, s.Router()),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logrus.Infof("dashboard API listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

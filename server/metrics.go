package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments the dashboard API. Each Metrics owns its registry so
// multiple servers (and tests) never fight over metric registration. A nil
// *Metrics disables instrumentation.
type Metrics struct {
	registry       *prometheus.Registry
	requestsTotal  *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	readingsServed prometheus.Counter
	storeErrors    prometheus.Counter
}

// NewMetrics builds and registers the API metric set.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		readingsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "readings_served_total",
			Help: "Total twin readings returned by the API.",
		}),
		storeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total store failures observed while serving requests.",
		}),
	}
	m.registry.MustRegister(m.requestsTotal, m.duration, m.readingsServed, m.storeErrors)
	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request count and duration for a route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		if m != nil {
			m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ReadingsServed adds to the served-readings counter.
func (m *Metrics) ReadingsServed(n int) {
	if m == nil {
		return
	}
	m.readingsServed.Add(float64(n))
}

// StoreError counts one store failure.
func (m *Metrics) StoreError() {
	if m == nil {
		return
	}
	m.storeErrors.Inc()
}

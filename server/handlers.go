package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/luxtwin/luxtwin/store"
	"github.com/luxtwin/luxtwin/twin"
	"github.com/luxtwin/luxtwin/twin/eval"
)

// Query parameter clamps. Windows are capped at one week; result sizes are
// kept inside what the timeline chart can render.
const (
	defaultHours = 24
	minHours     = 1
	maxHours     = 168

	defaultLimit = 1000
	minLimit     = 50
	maxLimit     = 5000
)

type readingItem struct {
	TS         time.Time  `json:"ts"`
	LuxPred    float64    `json:"lux_pred"`
	LuxObs     float64    `json:"lux_obs"`
	CloudCover float64    `json:"cloud_cover"`
	Flags      twin.Flags `json:"flags"`
}

type readingsResponse struct {
	DeviceID string        `json:"device_id"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Count    int           `json:"count"`
	Readings []readingItem `json:"readings"`
}

type statsResponse struct {
	Avg      float64 `json:"avg"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Readings int     `json:"readings"`
}

// statusInfo is the presentation band for a lux level, as rendered by the
// dashboard's status card.
type statusInfo struct {
	Level string `json:"level"`
	Color string `json:"color"`
}

type latestResponse struct {
	Reading twin.Reading `json:"reading"`
	Status  statusInfo   `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	device := s.deviceParam(r)
	hours := parseIntParam(r, "hours", defaultHours, minHours, maxHours)
	limit := parseIntParam(r, "limit", defaultLimit, minLimit, maxLimit)

	end := time.Now().UTC()
	start := end.Add(-time.Duration(hours) * time.Hour)

	readings, err := s.store.Readings(r.Context(), device, start, end, int64(limit))
	if err != nil {
		s.storeFailure(w, "reading window query", err)
		return
	}

	items := make([]readingItem, 0, len(readings))
	for _, rd := range readings {
		items = append(items, readingItem{
			TS:         rd.TS,
			LuxPred:    rd.LuxPred,
			LuxObs:     rd.LuxObs,
			CloudCover: rd.CloudCover,
			Flags:      rd.Flags,
		})
	}
	s.metrics.ReadingsServed(len(items))

	writeJSON(w, http.StatusOK, readingsResponse{
		DeviceID: device,
		Start:    start,
		End:      end,
		Count:    len(items),
		Readings: items,
	})
}

func (s *Server) handleEvaluation(w http.ResponseWriter, r *http.Request) {
	device := s.deviceParam(r)
	hours := parseIntParam(r, "hours", defaultHours, minHours, maxHours)
	tol := parseFloatParam(r, "tol", eval.DefaultTolLux)

	end := time.Now().UTC()
	start := end.Add(-time.Duration(hours) * time.Hour)

	readings, err := s.store.Readings(r.Context(), device, start, end, 0)
	if err != nil {
		s.storeFailure(w, "evaluation window query", err)
		return
	}
	writeJSON(w, http.StatusOK, eval.Evaluate(readings, tol))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	device := s.deviceParam(r)
	hours := parseIntParam(r, "hours", defaultHours, minHours, maxHours)

	end := time.Now().UTC()
	start := end.Add(-time.Duration(hours) * time.Hour)

	readings, err := s.store.Readings(r.Context(), device, start, end, 0)
	if err != nil {
		s.storeFailure(w, "stats window query", err)
		return
	}
	if len(readings) == 0 {
		writeJSON(w, http.StatusOK, statsResponse{})
		return
	}

	obs := make([]float64, len(readings))
	for i, rd := range readings {
		obs[i] = rd.LuxObs
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Avg:      round1(stat.Mean(obs, nil)),
		Min:      round1(floats.Min(obs)),
		Max:      round1(floats.Max(obs)),
		Readings: len(readings),
	})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	device := s.deviceParam(r)

	reading, err := s.store.LatestReading(r.Context(), device)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no readings for device " + device})
		return
	}
	if err != nil {
		s.storeFailure(w, "latest reading query", err)
		return
	}
	writeJSON(w, http.StatusOK, latestResponse{
		Reading: *reading,
		Status:  statusForLux(reading.LuxObs),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// statusForLux maps a lux level onto the dashboard's presentation bands.
func statusForLux(lux float64) statusInfo {
	switch {
	case lux < 15:
		return statusInfo{Level: "Dark", Color: "#1a1a2e"}
	case lux < 25:
		return statusInfo{Level: "Dim", Color: "#16213e"}
	case lux < 35:
		return statusInfo{Level: "Normal", Color: "#e94560"}
	case lux < 50:
		return statusInfo{Level: "Bright", Color: "#f39c12"}
	default:
		return statusInfo{Level: "Very Bright", Color: "#f1c40f"}
	}
}

func (s *Server) deviceParam(r *http.Request) string {
	if device := r.URL.Query().Get("device_id"); device != "" {
		return device
	}
	return s.defaultDevice
}

// parseIntParam reads an integer query parameter. A missing or malformed
// value falls back to the default; parsed values are clamped to [min, max].
func parseIntParam(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// parseFloatParam reads a positive float query parameter, falling back to
// the default when missing, malformed or non-positive.
func parseFloatParam(r *http.Request, name string, def float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func (s *Server) storeFailure(w http.ResponseWriter, op string, err error) {
	s.metrics.StoreError()
	logrus.Errorf("%s failed: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "store unavailable"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("encoding response: %v", err)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

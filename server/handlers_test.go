package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxtwin/luxtwin/store"
	"github.com/luxtwin/luxtwin/twin"
	"github.com/luxtwin/luxtwin/twin/eval"
)

func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return New(mem, "ls-100-0001"), mem
}

func seed(t *testing.T, mem *store.Memory, device string, ages []time.Duration, obs []float64) {
	t.Helper()
	now := time.Now().UTC()
	var batch []twin.Reading
	for i, age := range ages {
		batch = append(batch, twin.Reading{
			RoomID:       "room-101",
			DeviceID:     device,
			ModelVersion: "twin-v1",
			TS:           now.Add(-age),
			LuxPred:      obs[i],
			LuxObs:       obs[i],
		})
	}
	require.NoError(t, mem.InsertReadings(context.Background(), batch))
}

func doGET(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestReadings_WindowShape(t *testing.T) {
	s, mem := newTestServer(t)
	seed(t, mem, "ls-1", []time.Duration{30 * time.Minute, 20 * time.Minute, 10 * time.Minute}, []float64{100, 110, 120})

	rec := doGET(t, s, "/api/readings?device_id=ls-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp readingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ls-1", resp.DeviceID)
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Readings, 3)
	assert.Equal(t, 100.0, resp.Readings[0].LuxObs)
	assert.Equal(t, 120.0, resp.Readings[2].LuxObs)
	assert.Equal(t, 24*time.Hour, resp.End.Sub(resp.Start))
}

func TestReadings_TimestampsAreUTCWire(t *testing.T) {
	s, mem := newTestServer(t)
	seed(t, mem, "ls-1", []time.Duration{10 * time.Minute}, []float64{100})

	rec := doGET(t, s, "/api/readings?device_id=ls-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Readings []struct {
			TS string `json:"ts"`
		} `json:"readings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.Readings, 1)
	assert.True(t, strings.HasSuffix(raw.Readings[0].TS, "Z"), "ts %q not UTC-suffixed", raw.Readings[0].TS)
}

func TestReadings_HoursClamped(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doGET(t, s, "/api/readings?hours=99999")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp readingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 168*time.Hour, resp.End.Sub(resp.Start))

	rec = doGET(t, s, "/api/readings?hours=junk")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 24*time.Hour, resp.End.Sub(resp.Start))
}

func TestReadings_LimitClampedToFloor(t *testing.T) {
	s, mem := newTestServer(t)
	ages := make([]time.Duration, 60)
	obs := make([]float64, 60)
	for i := range ages {
		ages[i] = time.Duration(60-i) * time.Minute
		obs[i] = float64(i)
	}
	seed(t, mem, "ls-100-0001", ages, obs)

	rec := doGET(t, s, "/api/readings?limit=7")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp readingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 50, resp.Count, "limit below the floor should clamp to 50")
}

func TestReadings_DefaultDeviceFromServer(t *testing.T) {
	s, mem := newTestServer(t)
	seed(t, mem, "ls-100-0001", []time.Duration{5 * time.Minute}, []float64{42})

	rec := doGET(t, s, "/api/readings")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp readingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ls-100-0001", resp.DeviceID)
	assert.Equal(t, 1, resp.Count)
}

func TestEvaluation_EmptyWindowNotOK(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doGET(t, s, "/api/evaluation?device_id=ls-none")
	require.Equal(t, http.StatusOK, rec.Code)
	var rep eval.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.False(t, rep.OK)
	assert.Equal(t, "no data", rep.Reason)
}

func TestEvaluation_ScoresWindow(t *testing.T) {
	s, mem := newTestServer(t)
	now := time.Now().UTC()
	batch := []twin.Reading{
		{DeviceID: "ls-1", TS: now.Add(-10 * time.Minute), LuxPred: 100, LuxObs: 110},
		{DeviceID: "ls-1", TS: now.Add(-5 * time.Minute), LuxPred: 100, LuxObs: 90},
	}
	require.NoError(t, mem.InsertReadings(context.Background(), batch))

	rec := doGET(t, s, "/api/evaluation?device_id=ls-1&tol=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var rep eval.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.True(t, rep.OK)
	assert.Equal(t, 2, rep.Count)
	assert.InDelta(t, 10.0, rep.MAE, 1e-9)
	assert.Equal(t, 5.0, rep.TolLux)
	assert.InDelta(t, 0.0, rep.WithinTolPct, 1e-9)
}

func TestStats_HandComputed(t *testing.T) {
	s, mem := newTestServer(t)
	seed(t, mem, "ls-1", []time.Duration{30 * time.Minute, 20 * time.Minute, 10 * time.Minute}, []float64{10, 20, 31})

	rec := doGET(t, s, "/api/stats?device_id=ls-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, statsResponse{Avg: 20.3, Min: 10, Max: 31, Readings: 3}, resp)
}

func TestStats_EmptyWindowZeros(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doGET(t, s, "/api/stats?device_id=ls-none")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, statsResponse{}, resp)
}

func TestLatest_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doGET(t, s, "/api/latest?device_id=ls-none")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "ls-none")
}

func TestLatest_ReturnsNewestWithStatus(t *testing.T) {
	s, mem := newTestServer(t)
	seed(t, mem, "ls-1", []time.Duration{time.Hour, time.Minute}, []float64{400, 3})

	rec := doGET(t, s, "/api/latest?device_id=ls-1")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp latestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3.0, resp.Reading.LuxObs)
	assert.Equal(t, "Dark", resp.Status.Level)
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doGET(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpointExposesCounters(t *testing.T) {
	s, mem := newTestServer(t)
	seed(t, mem, "ls-1", []time.Duration{time.Minute}, []float64{100})
	doGET(t, s, "/api/readings?device_id=ls-1")

	rec := doGET(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "readings_served_total")
}

func TestStatusForLux_Bands(t *testing.T) {
	cases := []struct {
		lux  float64
		want string
	}{
		{-50, "Dark"},
		{0, "Dark"},
		{14.9, "Dark"},
		{15, "Dim"},
		{24.9, "Dim"},
		{25, "Normal"},
		{34.9, "Normal"},
		{35, "Bright"},
		{49.9, "Bright"},
		{50, "Very Bright"},
		{450, "Very Bright"},
	}
	for _, tc := range cases {
		if got := statusForLux(tc.lux).Level; got != tc.want {
			t.Errorf("statusForLux(%f) = %q, want %q", tc.lux, got, tc.want)
		}
	}
}

func TestParseIntParam_Clamping(t *testing.T) {
	mk := func(query string) *http.Request {
		return httptest.NewRequest(http.MethodGet, "/api/readings"+query, nil)
	}
	cases := []struct {
		query string
		want  int
	}{
		{"", 24},
		{"?hours=12", 12},
		{"?hours=0", 1},
		{"?hours=-3", 1},
		{"?hours=200", 168},
		{"?hours=oops", 24},
	}
	for _, tc := range cases {
		if got := parseIntParam(mk(tc.query), "hours", defaultHours, minHours, maxHours); got != tc.want {
			t.Errorf("query %q: parseIntParam = %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestParseFloatParam_Fallbacks(t *testing.T) {
	mk := func(query string) *http.Request {
		return httptest.NewRequest(http.MethodGet, "/api/evaluation"+query, nil)
	}
	cases := []struct {
		query string
		want  float64
	}{
		{"", 25},
		{"?tol=10.5", 10.5},
		{"?tol=0", 25},
		{"?tol=-2", 25},
		{"?tol=NaN", 25},
		{"?tol=oops", 25},
	}
	for _, tc := range cases {
		if got := parseFloatParam(mk(tc.query), "tol", 25); got != tc.want {
			t.Errorf("query %q: parseFloatParam = %f, want %f", tc.query, got, tc.want)
		}
	}
}

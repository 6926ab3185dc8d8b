package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/luxtwin/luxtwin/twin"
)

// Memory is an in-process Store for tests and database-free local runs.
// Readings are held per device, sorted by timestamp. Safe for concurrent
// use.
type Memory struct {
	mu       sync.RWMutex
	readings map[string][]twin.Reading
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{readings: make(map[string][]twin.Reading)}
}

// EnsureIndexes is a no-op; the memory store keeps per-device slices sorted.
func (m *Memory) EnsureIndexes(ctx context.Context) error { return nil }

func (m *Memory) InsertReadings(ctx context.Context, readings []twin.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	touched := make(map[string]bool)
	for _, r := range readings {
		m.readings[r.DeviceID] = append(m.readings[r.DeviceID], r)
		touched[r.DeviceID] = true
	}
	for id := range touched {
		rs := m.readings[id]
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].TS.Before(rs[j].TS) })
	}
	return nil
}

func (m *Memory) Readings(ctx context.Context, deviceID string, start, end time.Time, limit int64) ([]twin.Reading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []twin.Reading
	for _, r := range m.readings[deviceID] {
		if r.TS.Before(start) || !r.TS.Before(end) {
			continue
		}
		out = append(out, r)
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) LatestReading(ctx context.Context, deviceID string) (*twin.Reading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rs := m.readings[deviceID]
	if len(rs) == 0 {
		return nil, ErrNotFound
	}
	r := rs[len(rs)-1]
	return &r, nil
}

func (m *Memory) Close(ctx context.Context) error { return nil }

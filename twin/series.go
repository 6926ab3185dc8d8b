package twin

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// StuckEpsilon is the tolerance for declaring two consecutive observations
// identical. Healthy readings carry Gaussian noise, so exact repeats only
// happen when an anomaly latches the output; the epsilon just absorbs
// float64 round-trips through JSON or BSON.
const StuckEpsilon = 1e-9

// CloudCoverFunc supplies the cloud cover fraction for a sampling instant.
// Results are clamped to [0, 1] by the caller.
type CloudCoverFunc func(ts time.Time) float64

// ConstantCloudCover returns a CloudCoverFunc that always reports frac.
func ConstantCloudCover(frac float64) CloudCoverFunc {
	return func(time.Time) float64 { return frac }
}

// SeriesOptions controls randomness and sky conditions for one generation
// run. The zero value is usable: seed 0, random cloud cover per reading.
type SeriesOptions struct {
	// Seed is the master seed; the effective stream is derived per device
	// via DeriveSeed. Ignored when Rand is set.
	Seed int64

	// Rand, when non-nil, is used directly as the random stream.
	Rand *rand.Rand

	// CloudCover supplies sky conditions per instant. When nil, each
	// reading draws an independent uniform cover from the series stream.
	CloudCover CloudCoverFunc
}

// GenerateSeries produces the twin's readings for the window starting at
// start and spanning duration, one reading per cfg.SamplingSeconds. The
// reading count is floor(duration / interval); a window shorter than one
// interval yields no readings.
//
// start is normalized to UTC and day indexes count UTC calendar-date
// boundaries crossed since the first reading, so drift steps at midnight
// rather than after each 24h of elapsed time.
//
// Generation is deterministic for a fixed cfg and SeriesOptions, holds no
// state between calls, and fails only on an invalid config.
func GenerateSeries(start time.Time, duration time.Duration, cfg Config, opts SeriesOptions) ([]Reading, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid twin config: %w", err)
	}
	rng := opts.Rand
	if rng == nil {
		rng = NewRNG(opts.Seed, cfg.DeviceID)
	}

	start = start.UTC()
	interval := time.Duration(cfg.SamplingSeconds) * time.Second
	total := int(duration / interval)
	if total <= 0 {
		return nil, nil
	}

	readings := make([]Reading, 0, total)
	var prevObs float64
	for i := 0; i < total; i++ {
		ts := start.Add(time.Duration(i) * interval)

		var cc float64
		if opts.CloudCover != nil {
			cc = opts.CloudCover(ts)
		} else {
			cc = rng.Float64()
		}
		cc = clamp01(cc)

		pred := PredictedLux(ts, cc, cfg)
		obs := ObservedLux(pred, daysBetween(start, ts), cfg, rng)
		flags := Classify(obs, cfg)
		if i > 0 && math.Abs(obs-prevObs) < StuckEpsilon {
			flags.Stuck = true
		}

		readings = append(readings, Reading{
			RoomID:       cfg.RoomID,
			DeviceID:     cfg.DeviceID,
			ModelVersion: cfg.ModelVersion,
			TS:           ts,
			CloudCover:   cc,
			LuxPred:      pred,
			LuxObs:       obs,
			Flags:        flags,
		})
		prevObs = obs
	}
	return readings, nil
}

// daysBetween counts calendar-date boundaries from a to b. Both are UTC.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	a0 := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	b0 := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(b0.Sub(a0) / (24 * time.Hour))
}

package twin

import (
	"math"
	"time"
)

// PredictedLux evaluates the daylight model at ts under the given cloud
// cover fraction. Outside the [sunrise, sunset] window it returns NightLux.
// Inside, the daylight contribution follows a half sine peaking midway
// through the window, attenuated linearly by cloud cover: a fully overcast
// sky removes 75% of it. The result is floored at zero.
//
// The hour of day is read from ts in its own location; callers that need
// the canonical behavior pass UTC timestamps (GenerateSeries does).
func PredictedLux(ts time.Time, cloudCover float64, cfg Config) float64 {
	h := float64(ts.Hour()) + float64(ts.Minute())/60.0 + float64(ts.Second())/3600.0
	if h < cfg.SunriseHour || h > cfg.SunsetHour {
		return cfg.NightLux
	}
	x := (h - cfg.SunriseHour) / (cfg.SunsetHour - cfg.SunriseHour)
	shape := math.Sin(math.Pi * x)
	atten := 1.0 - 0.75*clamp01(cloudCover)
	lux := cfg.NightLux + (cfg.PeakLux-cfg.NightLux)*shape*atten
	return math.Max(0.0, lux)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0.0), 1.0)
}

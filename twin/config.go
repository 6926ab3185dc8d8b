package twin

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the sensor identity and the model parameters of one twin.
// Zero values are not usable; start from DefaultConfig or LoadConfig and
// call Validate before generating anything.
type Config struct {
	RoomID       string `yaml:"room_id"`
	DeviceID     string `yaml:"device_id"`
	ModelVersion string `yaml:"model_version"`

	// SamplingSeconds is the interval between consecutive readings.
	SamplingSeconds int `yaml:"sampling_seconds"`

	// Daylight curve: lux floor at night, lux peak at solar noon, and the
	// daylight window in fractional hours of the day.
	NightLux    float64 `yaml:"night_lux"`
	PeakLux     float64 `yaml:"peak_lux"`
	SunriseHour float64 `yaml:"sunrise_hour"`
	SunsetHour  float64 `yaml:"sunset_hour"`

	// Sensor imperfections: Gaussian read noise, linear calibration drift
	// per elapsed day, and the per-reading anomaly probability.
	NoiseSigma  float64 `yaml:"noise_sigma"`
	DriftPerDay float64 `yaml:"drift_lux_per_day"`
	AnomalyRate float64 `yaml:"anomaly_rate"`

	// Classification thresholds.
	AlertLuxThreshold float64 `yaml:"alert_lux_threshold"`
	ImpossibleHighLux float64 `yaml:"impossible_high_lux"`
}

// DefaultConfig returns the reference indoor sensor: one reading per minute,
// a 2-450 lux day curve between 07:00 and 18:00, 8 lux read noise, 2 lux/day
// drift and a 1% anomaly rate.
func DefaultConfig() Config {
	return Config{
		RoomID:            "room-101",
		DeviceID:          "ls-100-0001",
		ModelVersion:      "twin-v1",
		SamplingSeconds:   60,
		NightLux:          2.0,
		PeakLux:           450.0,
		SunriseHour:       7.0,
		SunsetHour:        18.0,
		NoiseSigma:        8.0,
		DriftPerDay:       2.0,
		AnomalyRate:       0.01,
		AlertLuxThreshold: 10.0,
		ImpossibleHighLux: 20000.0,
	}
}

// LoadConfig reads a YAML twin configuration file. Fields absent from the
// file keep their DefaultConfig values; unrecognized keys (typos) are
// rejected. The returned config is already validated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading twin config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing twin config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every parameter the model depends on. Generation refuses
// to run on a config that fails here.
func (c Config) Validate() error {
	if c.RoomID == "" {
		return fmt.Errorf("room_id must not be empty")
	}
	if c.DeviceID == "" {
		return fmt.Errorf("device_id must not be empty")
	}
	if c.ModelVersion == "" {
		return fmt.Errorf("model_version must not be empty")
	}
	if c.SamplingSeconds <= 0 {
		return fmt.Errorf("sampling_seconds must be positive, got %d", c.SamplingSeconds)
	}
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"night_lux", c.NightLux},
		{"peak_lux", c.PeakLux},
		{"sunrise_hour", c.SunriseHour},
		{"sunset_hour", c.SunsetHour},
		{"noise_sigma", c.NoiseSigma},
		{"drift_lux_per_day", c.DriftPerDay},
		{"anomaly_rate", c.AnomalyRate},
		{"alert_lux_threshold", c.AlertLuxThreshold},
		{"impossible_high_lux", c.ImpossibleHighLux},
	} {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return fmt.Errorf("%s must be a finite number, got %f", f.name, f.val)
		}
	}
	if c.NightLux < 0 {
		return fmt.Errorf("night_lux must be non-negative, got %f", c.NightLux)
	}
	if c.PeakLux <= c.NightLux {
		return fmt.Errorf("peak_lux must exceed night_lux, got peak=%f night=%f", c.PeakLux, c.NightLux)
	}
	if c.SunriseHour < 0 || c.SunsetHour > 24 || c.SunriseHour >= c.SunsetHour {
		return fmt.Errorf("daylight window must satisfy 0 <= sunrise < sunset <= 24, got sunrise=%f sunset=%f", c.SunriseHour, c.SunsetHour)
	}
	if c.NoiseSigma < 0 {
		return fmt.Errorf("noise_sigma must be non-negative, got %f", c.NoiseSigma)
	}
	if c.AnomalyRate < 0 || c.AnomalyRate > 1 {
		return fmt.Errorf("anomaly_rate must be in [0, 1], got %f", c.AnomalyRate)
	}
	if c.AlertLuxThreshold < 0 {
		return fmt.Errorf("alert_lux_threshold must be non-negative, got %f", c.AlertLuxThreshold)
	}
	if c.ImpossibleHighLux <= 0 {
		return fmt.Errorf("impossible_high_lux must be positive, got %f", c.ImpossibleHighLux)
	}
	return nil
}

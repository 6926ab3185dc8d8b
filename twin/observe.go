package twin

import "math/rand"

// ObservedLux simulates what the physical sensor reports for a given model
// prediction: prediction plus linear calibration drift for the elapsed day
// count plus Gaussian read noise. With probability cfg.AnomalyRate the
// healthy value is then overwritten by one of the anomaly kinds, chosen
// uniformly.
//
// The draw order is fixed (noise, anomaly gate, anomaly kind) so runs with
// the same rng stream are comparable reading for reading.
func ObservedLux(pred float64, dayIndex int, cfg Config, rng *rand.Rand) float64 {
	drift := cfg.DriftPerDay * float64(dayIndex)
	noise := rng.NormFloat64() * cfg.NoiseSigma
	lux := pred + drift + noise
	if rng.Float64() < cfg.AnomalyRate {
		kind := AnomalyKind(rng.Intn(int(numAnomalyKinds)))
		lux = kind.value(pred, cfg.PeakLux)
	}
	return lux
}

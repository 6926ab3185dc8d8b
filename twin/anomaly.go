package twin

// AnomalyKind identifies the failure mode injected into an observation.
type AnomalyKind int

const (
	// AnomalyStuckLow forces the reading to exactly zero.
	AnomalyStuckLow AnomalyKind = iota
	// AnomalyStuckHigh forces the reading to twice the configured peak.
	AnomalyStuckHigh
	// AnomalySpike adds three peaks on top of the prediction.
	AnomalySpike
	// AnomalyNegative forces a physically impossible negative reading.
	AnomalyNegative

	numAnomalyKinds // keep last
)

// negativeAnomalyLux is the fixed value reported by a sensor whose ADC
// wraps below zero.
const negativeAnomalyLux = -50.0

func (k AnomalyKind) String() string {
	switch k {
	case AnomalyStuckLow:
		return "stuck_low"
	case AnomalyStuckHigh:
		return "stuck_high"
	case AnomalySpike:
		return "spike"
	case AnomalyNegative:
		return "negative"
	default:
		return "unknown"
	}
}

// value returns the lux reading this anomaly produces. It replaces the
// model output entirely rather than perturbing it.
func (k AnomalyKind) value(pred, peakLux float64) float64 {
	switch k {
	case AnomalyStuckLow:
		return 0.0
	case AnomalyStuckHigh:
		return 2.0 * peakLux
	case AnomalySpike:
		return pred + 3.0*peakLux
	case AnomalyNegative:
		return negativeAnomalyLux
	default:
		return pred
	}
}

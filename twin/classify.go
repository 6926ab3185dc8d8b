package twin

// Classify derives the quality flags visible from a single observed value.
// A reading below zero is Negative; above cfg.ImpossibleHighLux it is
// ImpossibleHigh; a non-negative reading under cfg.AlertLuxThreshold raises
// DarkAlert (lights unexpectedly off, or a failing sensor). Stuck detection
// needs the previous reading and is handled by GenerateSeries.
func Classify(lux float64, cfg Config) Flags {
	return Flags{
		Negative:       lux < 0.0,
		ImpossibleHigh: lux > cfg.ImpossibleHighLux,
		DarkAlert:      lux >= 0.0 && lux < cfg.AlertLuxThreshold,
	}
}

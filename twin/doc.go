// Package twin implements a digital twin of an ambient light sensor.
//
// The twin produces two parallel signals for every sampling instant: the
// model prediction (a clear half-sine daylight curve attenuated by cloud
// cover) and a simulated observation (prediction plus calibration drift,
// Gaussian noise, and occasional injected anomalies). Downstream consumers
// compare the two to decide whether the physical sensor still behaves.
//
// Entry points:
//   - Config / LoadConfig: sensor and model parameters, validated up front
//   - PredictedLux: the deterministic daylight model
//   - ObservedLux: the stochastic sensor model
//   - Classify: per-reading quality flags
//   - GenerateSeries: a full reading series for a time window
//
// All randomness flows through explicit *rand.Rand instances; nothing in
// this package touches the global rand state. Per-device streams are
// derived with DeriveSeed so fleet generation is reproducible regardless
// of scheduling order.
package twin

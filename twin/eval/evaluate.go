// Package eval scores a series of twin readings against the twin's own
// predictions. It is the consistency check for the generator: if the twin
// is healthy, observations track predictions within the noise budget, the
// predicted peak lands near midday, and anomaly counts stay near the
// configured rate.
package eval

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/luxtwin/luxtwin/twin"
)

// DefaultTolLux is the tolerance band applied when the caller does not
// choose one.
const DefaultTolLux = 25.0

// Peak sanity window: an indoor daylight model should predict its maximum
// in late morning or early afternoon.
const (
	peakHourMin = 10
	peakHourMax = 14
)

// AnomalyTally counts flagged readings per failure bucket. The buckets are
// independent; one reading can land in several.
type AnomalyTally struct {
	Negative       int `json:"negative"`
	ImpossibleHigh int `json:"impossible_high"`
	Stuck          int `json:"stuck"`
}

// Report bundles the evaluation of one reading window. When OK is false the
// window was empty and Reason says so; every other field is meaningless.
// Error metrics are rounded for reporting: three decimals for lux errors,
// two for percentages and the peak value.
type Report struct {
	OK           bool         `json:"ok"`
	Reason       string       `json:"reason,omitempty"`
	Count        int          `json:"count"`
	MAE          float64      `json:"mae"`
	RMSE         float64      `json:"rmse"`
	WithinTolPct float64      `json:"within_tol_percent"`
	TolLux       float64      `json:"tol_lux"`
	PeakHour     int          `json:"peak_hour_pred"`
	PeakLux      float64      `json:"peak_pred_lux"`
	PeakHourOK   bool         `json:"peak_hour_ok"`
	Anomalies    AnomalyTally `json:"anomalies"`
}

// Evaluate scores readings against a tolerance band in lux. Errors are
// observed minus predicted. The predicted peak hour is taken from the
// timestamp of the first reading holding the maximum prediction. An empty
// window yields OK=false rather than an error or a panic.
func Evaluate(readings []twin.Reading, tolLux float64) Report {
	if len(readings) == 0 {
		return Report{OK: false, Reason: "no data"}
	}

	n := len(readings)
	absErr := make([]float64, n)
	sqErr := make([]float64, n)
	within := 0
	var tally AnomalyTally
	peakHour, peakLux := readings[0].TS.Hour(), readings[0].LuxPred
	for i, r := range readings {
		e := r.LuxObs - r.LuxPred
		absErr[i] = math.Abs(e)
		sqErr[i] = e * e
		if math.Abs(e) <= tolLux {
			within++
		}
		if r.LuxPred > peakLux {
			peakHour, peakLux = r.TS.Hour(), r.LuxPred
		}
		if r.Flags.Negative {
			tally.Negative++
		}
		if r.Flags.ImpossibleHigh {
			tally.ImpossibleHigh++
		}
		if r.Flags.Stuck {
			tally.Stuck++
		}
	}

	return Report{
		OK:           true,
		Count:        n,
		MAE:          roundTo(stat.Mean(absErr, nil), 3),
		RMSE:         roundTo(math.Sqrt(stat.Mean(sqErr, nil)), 3),
		WithinTolPct: roundTo(100*float64(within)/float64(n), 2),
		TolLux:       tolLux,
		PeakHour:     peakHour,
		PeakLux:      roundTo(peakLux, 2),
		PeakHourOK:   peakHour >= peakHourMin && peakHour <= peakHourMax,
		Anomalies:    tally,
	}
}

// Print writes the report for operators, one aligned row per metric.
func (r Report) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Twin Evaluation Report ===")
	if !r.OK {
		fmt.Fprintf(w, "No result: %s\n", r.Reason)
		return
	}
	fmt.Fprintf(w, "Readings            : %d\n", r.Count)
	fmt.Fprintf(w, "MAE                 : %.3f lux\n", r.MAE)
	fmt.Fprintf(w, "RMSE                : %.3f lux\n", r.RMSE)
	fmt.Fprintf(w, "Within tolerance    : %.2f%% (band %.1f lux)\n", r.WithinTolPct, r.TolLux)
	fmt.Fprintf(w, "Predicted peak      : %.2f lux at hour %d\n", r.PeakLux, r.PeakHour)
	fmt.Fprintf(w, "Peak hour plausible : %t\n", r.PeakHourOK)
	fmt.Fprintf(w, "Anomalies           : negative=%d impossible_high=%d stuck=%d\n",
		r.Anomalies.Negative, r.Anomalies.ImpossibleHigh, r.Anomalies.Stuck)
	if !r.PeakHourOK {
		fmt.Fprintln(w, "\nNOTE: peak hour looks unusual. With real sensor data, check:")
		fmt.Fprintln(w, "- wrong timezone or wrong timestamps")
		fmt.Fprintln(w, "- sensor moved indoors/outdoors")
		fmt.Fprintln(w, "- room blinds or lighting schedule changed")
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

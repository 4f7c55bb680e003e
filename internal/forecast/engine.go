// Package forecast fits a trend and seasonality model to daily usage and
// extrapolates it past the end of the history.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/theirongolddev/creditcast/internal/model"
)

// ErrEngine indicates the model could not be fit or produced unusable output.
var ErrEngine = errors.New("forecast: engine failed")

// Engine fits a model to series and predicts every day from the first
// observation through horizonDays past the last one. series is sorted
// ascending with one record per day.
type Engine interface {
	FitPredict(ctx context.Context, series []model.UsageRecord, horizonDays int) ([]model.ForecastRecord, error)
	// MinHistory is the fewest observations FitPredict accepts.
	MinHistory() int
}

// Names of the built-in engines.
const (
	NameForecaster = "forecaster"
	NameLinear     = "linear"
)

// New returns the engine registered under name.
func New(name string) (Engine, error) {
	switch name {
	case "", NameForecaster:
		return Forecaster{}, nil
	case NameLinear:
		return Linear{}, nil
	default:
		return nil, fmt.Errorf("unknown forecast engine %q", name)
	}
}

// Span returns every calendar day from the first record through horizonDays
// past the last.
func Span(series []model.UsageRecord, horizonDays int) []time.Time {
	if len(series) == 0 {
		return nil
	}
	first := series[0].Date
	last := series[len(series)-1].Date.AddDate(0, 0, horizonDays)

	var out []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func checkInput(series []model.UsageRecord, horizonDays, minHistory int) error {
	if len(series) < minHistory {
		return fmt.Errorf("%w: need at least %d observations, got %d", ErrEngine, minHistory, len(series))
	}
	if horizonDays < 0 {
		return fmt.Errorf("%w: negative horizon %d", ErrEngine, horizonDays)
	}
	for i, r := range series {
		if !finite(r.CreditsUsed) {
			return fmt.Errorf("%w: non-finite value on %s", ErrEngine, r.Date.Format(time.DateOnly))
		}
		if i > 0 && !r.Date.After(series[i-1].Date) {
			return fmt.Errorf("%w: series not strictly ascending at %s", ErrEngine, r.Date.Format(time.DateOnly))
		}
	}
	return nil
}

func checkOutput(out []model.ForecastRecord) error {
	for _, r := range out {
		if !finite(r.Predicted) || !finite(r.Trend) || !finite(r.PredictedLower) || !finite(r.PredictedUpper) {
			return fmt.Errorf("%w: non-finite prediction on %s", ErrEngine, r.Date.Format(time.DateOnly))
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

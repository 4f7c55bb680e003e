package forecast

import (
	"context"
	"fmt"
	"time"

	forecaster "github.com/aouyang1/go-forecaster"

	"github.com/theirongolddev/creditcast/internal/model"
)

// forecasterMinHistory covers two full weeks so the weekly seasonality has
// something to fit. Shorter series make the library index past its input.
const forecasterMinHistory = 14

// Forecaster wraps github.com/aouyang1/go-forecaster with its default options.
type Forecaster struct{}

// MinHistory implements Engine.
func (Forecaster) MinHistory() int { return forecasterMinHistory }

// FitPredict implements Engine.
func (Forecaster) FitPredict(ctx context.Context, series []model.UsageRecord, horizonDays int) (out []model.ForecastRecord, err error) {
	if err := checkInput(series, horizonDays, forecasterMinHistory); err != nil {
		return nil, err
	}

	// the fit has no cancellation hook, so only check before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrEngine, r)
		}
	}()

	t := make([]time.Time, len(series))
	y := make([]float64, len(series))
	for i, r := range series {
		t[i] = r.Date
		y[i] = r.CreditsUsed
	}

	f, err := forecaster.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	if err := f.Fit(t, y); err != nil {
		return nil, fmt.Errorf("%w: fit: %w", ErrEngine, err)
	}

	span := Span(series, horizonDays)
	res, err := f.Predict(span)
	if err != nil {
		return nil, fmt.Errorf("%w: predict: %w", ErrEngine, err)
	}
	if len(res.Forecast) != len(span) {
		return nil, fmt.Errorf("%w: predicted %d points for %d days", ErrEngine, len(res.Forecast), len(span))
	}

	trend := res.SeriesComponents.Trend
	out = make([]model.ForecastRecord, len(span))
	for i, d := range span {
		rec := model.ForecastRecord{
			Date:           d,
			Predicted:      res.Forecast[i],
			PredictedLower: res.Forecast[i],
			PredictedUpper: res.Forecast[i],
			Trend:          res.Forecast[i],
		}
		if i < len(res.Lower) && i < len(res.Upper) {
			rec.PredictedLower = res.Lower[i]
			rec.PredictedUpper = res.Upper[i]
		}
		if i < len(trend) {
			rec.Trend = trend[i]
		}
		out[i] = rec
	}

	if err := checkOutput(out); err != nil {
		return nil, err
	}
	return out, nil
}

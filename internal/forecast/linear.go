package forecast

import (
	"context"
	"math"

	"github.com/theirongolddev/creditcast/internal/model"
)

// z for a two-sided 80% interval.
const intervalZ = 1.2816

// Linear is a deterministic engine: an ordinary least squares trend plus a
// day-of-week offset taken from the mean residual of each weekday.
type Linear struct{}

// MinHistory implements Engine. Two points fix a line.
func (Linear) MinHistory() int { return 2 }

// FitPredict implements Engine.
func (Linear) FitPredict(ctx context.Context, series []model.UsageRecord, horizonDays int) ([]model.ForecastRecord, error) {
	if err := checkInput(series, horizonDays, 2); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origin := series[0].Date
	x := func(r model.UsageRecord) float64 {
		return r.Date.Sub(origin).Hours() / 24
	}

	var sumX, sumY, sumXX, sumXY float64
	n := float64(len(series))
	for _, r := range series {
		xi := x(r)
		sumX += xi
		sumY += r.CreditsUsed
		sumXX += xi * xi
		sumXY += xi * r.CreditsUsed
	}
	slope := 0.0
	if den := n*sumXX - sumX*sumX; den != 0 {
		slope = (n*sumXY - sumX*sumY) / den
	}
	intercept := (sumY - slope*sumX) / n

	var weekday [7]float64
	var weekdayN [7]int
	for _, r := range series {
		w := r.Date.Weekday()
		weekday[w] += r.CreditsUsed - (intercept + slope*x(r))
		weekdayN[w]++
	}
	for w := range weekday {
		if weekdayN[w] > 0 {
			weekday[w] /= float64(weekdayN[w])
		}
	}

	var sse float64
	for _, r := range series {
		fit := intercept + slope*x(r) + weekday[r.Date.Weekday()]
		sse += (r.CreditsUsed - fit) * (r.CreditsUsed - fit)
	}
	band := intervalZ * math.Sqrt(sse/n)

	span := Span(series, horizonDays)
	out := make([]model.ForecastRecord, len(span))
	for i, d := range span {
		xi := d.Sub(origin).Hours() / 24
		trend := intercept + slope*xi
		pred := trend + weekday[d.Weekday()]
		out[i] = model.ForecastRecord{
			Date:           d,
			Predicted:      pred,
			Trend:          trend,
			PredictedLower: pred - band,
			PredictedUpper: pred + band,
		}
	}

	if err := checkOutput(out); err != nil {
		return nil, err
	}
	return out, nil
}

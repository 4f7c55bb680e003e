package pipeline

import (
	"fmt"
	"time"

	"github.com/theirongolddev/creditcast/internal/dates"
	"github.com/theirongolddev/creditcast/internal/forecast"
	"github.com/theirongolddev/creditcast/internal/model"
)

// Merge left-joins history onto the forecast by calendar day. Every forecast
// day is kept, in ascending order; a history day the forecast does not cover
// is an engine error.
func Merge(predicted []model.ForecastRecord, history []model.UsageRecord) ([]model.MergedRecord, error) {
	out := make([]model.MergedRecord, 0, len(predicted))
	index := make(map[time.Time]int, len(predicted))
	for _, p := range predicted {
		day := dates.Day(p.Date)
		if _, dup := index[day]; dup {
			return nil, fmt.Errorf("%w: duplicate forecast for %s", forecast.ErrEngine, day.Format(dates.Layout))
		}
		if n := len(out); n > 0 && day.Before(out[n-1].Date) {
			return nil, fmt.Errorf("%w: forecast not ascending at %s", forecast.ErrEngine, day.Format(dates.Layout))
		}
		index[day] = len(out)
		out = append(out, model.MergedRecord{
			Date:     day,
			Forecast: p.Predicted,
			Lower:    p.PredictedLower,
			Upper:    p.PredictedUpper,
		})
	}

	for _, h := range history {
		day := dates.Day(h.Date)
		i, ok := index[day]
		if !ok {
			return nil, fmt.Errorf("%w: no forecast for observed day %s", forecast.ErrEngine, day.Format(dates.Layout))
		}
		v := h.CreditsUsed
		if out[i].Actual != nil {
			v += *out[i].Actual
		}
		out[i].Actual = &v
	}
	return out, nil
}

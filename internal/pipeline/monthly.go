package pipeline

import (
	"github.com/theirongolddev/creditcast/internal/dates"
	"github.com/theirongolddev/creditcast/internal/model"
)

// AggregateMonthly sums actual and forecast credits per calendar month and
// prices them. daily must be ascending; months come out in the same order.
func AggregateMonthly(daily []model.MergedRecord, price float64) []model.MonthlyAggregate {
	var out []model.MonthlyAggregate
	for _, r := range daily {
		month := dates.MonthStart(r.Date)
		if n := len(out); n == 0 || !out[n-1].Month.Equal(month) {
			out = append(out, model.MonthlyAggregate{
				Month: month,
				Label: dates.MonthLabel(month),
			})
		}
		m := &out[len(out)-1]
		m.ActualSum += r.ActualOrZero()
		m.ForecastSum += r.Forecast
	}
	for i := range out {
		out[i].ActualCost = out[i].ActualSum * price
		out[i].ForecastCost = out[i].ForecastSum * price
	}
	return out
}

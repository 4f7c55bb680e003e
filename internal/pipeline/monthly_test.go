package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/creditcast/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestAggregateMonthly_Price(t *testing.T) {
	daily := []model.MergedRecord{
		{Date: day(2024, 2, 1), Forecast: 60, Actual: ptr(10)},
		{Date: day(2024, 2, 2), Forecast: 40},
	}
	got := AggregateMonthly(daily, 2.00)
	if len(got) != 1 {
		t.Fatalf("months = %d, want 1", len(got))
	}
	if got[0].ForecastSum != 100 {
		t.Fatalf("forecast_sum = %v, want 100", got[0].ForecastSum)
	}
	if got[0].ForecastCost != 200 {
		t.Fatalf("forecast_cost = %v, want 200", got[0].ForecastCost)
	}
	if got[0].ActualCost != 20 {
		t.Fatalf("actual_cost = %v, want 20", got[0].ActualCost)
	}
}

func TestAggregateMonthly_SumsMatchDaily(t *testing.T) {
	var daily []model.MergedRecord
	start := day(2023, 12, 20)
	for i := 0; i < 75; i++ {
		d := start.AddDate(0, 0, i)
		r := model.MergedRecord{Date: d, Forecast: float64(i%7) + 0.5}
		if i < 40 {
			r.Actual = ptr(float64(i % 5))
		}
		daily = append(daily, r)
	}

	got := AggregateMonthly(daily, 3)

	wantForecast := map[time.Month]float64{}
	wantActual := map[time.Month]float64{}
	for _, r := range daily {
		wantForecast[r.Date.Month()] += r.Forecast
		wantActual[r.Date.Month()] += r.ActualOrZero()
	}

	labels := []string{"Dec-2023", "Jan-2024", "Feb-2024", "Mar-2024"}
	if len(got) != len(labels) {
		t.Fatalf("months = %d, want %d", len(got), len(labels))
	}
	for i, m := range got {
		if m.Label != labels[i] {
			t.Fatalf("month %d label = %q, want %q", i, m.Label, labels[i])
		}
		if math.Abs(m.ForecastSum-wantForecast[m.Month.Month()]) > 1e-9 {
			t.Fatalf("%s forecast_sum = %v, want %v", m.Label, m.ForecastSum, wantForecast[m.Month.Month()])
		}
		if math.Abs(m.ActualSum-wantActual[m.Month.Month()]) > 1e-9 {
			t.Fatalf("%s actual_sum = %v, want %v", m.Label, m.ActualSum, wantActual[m.Month.Month()])
		}
		if math.Abs(m.ForecastCost-3*m.ForecastSum) > 1e-9 {
			t.Fatalf("%s forecast_cost = %v, want %v", m.Label, m.ForecastCost, 3*m.ForecastSum)
		}
	}
}

func TestAggregateMonthly_Empty(t *testing.T) {
	if got := AggregateMonthly(nil, 2); len(got) != 0 {
		t.Fatalf("months = %d, want 0", len(got))
	}
}

package web

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/creditcast/internal/model"
	"github.com/theirongolddev/creditcast/internal/pipeline"
)

func TestRenderCharts(t *testing.T) {
	a := 4.0
	jan := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)
	res := &pipeline.Result{
		Daily: []model.MergedRecord{
			{Date: jan, Actual: &a, Forecast: 4, Lower: 3, Upper: 5},
			{Date: jan.AddDate(0, 0, 3), Forecast: 5, Lower: 4, Upper: 6},
		},
		Monthly: []model.MonthlyAggregate{
			{Month: jan, Label: "Jan-2024", ActualSum: 4, ForecastSum: 4},
			{Month: jan.AddDate(0, 0, 3), Label: "Feb-2024", ForecastSum: 5},
		},
	}

	cs, err := renderCharts(res)
	if err != nil {
		t.Fatalf("renderCharts: %v", err)
	}
	daily, monthly := string(cs.Daily), string(cs.Monthly)
	for _, want := range []string{"Daily credits", "2024-01-30", "Actual", "Forecast", `"-"`} {
		if !strings.Contains(daily, want) {
			t.Errorf("daily chart missing %q", want)
		}
	}
	for _, want := range []string{"Monthly credits", "Jan-2024", "Feb-2024", "-45"} {
		if !strings.Contains(monthly, want) {
			t.Errorf("monthly chart missing %q", want)
		}
	}
}

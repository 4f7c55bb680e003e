package pipeline

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/theirongolddev/creditcast/internal/forecast"
	"github.com/theirongolddev/creditcast/internal/model"
)

// flatEngine predicts a constant for every day of the span.
type flatEngine struct {
	value   float64
	calls   int
	err     error
	minDays int
}

func (e *flatEngine) MinHistory() int { return e.minDays }

func (e *flatEngine) FitPredict(_ context.Context, series []model.UsageRecord, horizonDays int) ([]model.ForecastRecord, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	var out []model.ForecastRecord
	for _, d := range forecast.Span(series, horizonDays) {
		out = append(out, model.ForecastRecord{
			Date:           d,
			Predicted:      e.value,
			Trend:          e.value,
			PredictedLower: e.value - 1,
			PredictedUpper: e.value + 1,
		})
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func constantHistory(start time.Time, days int, v float64) []model.UsageRecord {
	out := make([]model.UsageRecord, days)
	for i := range out {
		out[i] = model.UsageRecord{Date: start.AddDate(0, 0, i), CreditsUsed: v}
	}
	return out
}

func TestRun_ThirtyDaysOfTen(t *testing.T) {
	eng := &flatEngine{value: 10}
	res, err := Run(context.Background(), eng, Input{
		History:     constantHistory(day(2024, 1, 1), 30, 10),
		HorizonDays: 10,
		Price:       1.5,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Daily) != 40 {
		t.Fatalf("daily rows = %d, want 40", len(res.Daily))
	}
	if len(res.Monthly) != 2 {
		t.Fatalf("months = %d, want 2", len(res.Monthly))
	}
	jan, feb := res.Monthly[0], res.Monthly[1]
	if jan.Label != "Jan-2024" || feb.Label != "Feb-2024" {
		t.Fatalf("labels = %q, %q, want Jan-2024, Feb-2024", jan.Label, feb.Label)
	}
	if jan.ActualSum != 300 {
		t.Fatalf("Jan actual_sum = %v, want 300", jan.ActualSum)
	}
	if jan.ActualCost != 450 {
		t.Fatalf("Jan actual_cost = %v, want 450", jan.ActualCost)
	}
	if feb.ActualSum != 0 {
		t.Fatalf("Feb actual_sum = %v, want 0", feb.ActualSum)
	}
	// Jan 1..31 and Feb 1..9 at 10 credits each.
	if jan.ForecastSum != 310 || feb.ForecastSum != 90 {
		t.Fatalf("forecast sums = %v, %v, want 310, 90", jan.ForecastSum, feb.ForecastSum)
	}
}

func TestRun_InsufficientHistory(t *testing.T) {
	eng := &flatEngine{value: 1}
	_, err := Run(context.Background(), eng, Input{
		History:     constantHistory(day(2024, 3, 1), 1, 5),
		HorizonDays: 30,
		Price:       2,
	})
	var ih *InsufficientHistoryError
	if !errors.As(err, &ih) {
		t.Fatalf("err = %v, want InsufficientHistoryError", err)
	}
	if ih.Have != 1 || ih.Need != MinHistoryDays {
		t.Fatalf("Have/Need = %d/%d, want 1/%d", ih.Have, ih.Need, MinHistoryDays)
	}
	if eng.calls != 0 {
		t.Fatalf("engine calls = %d, want 0", eng.calls)
	}
}

func TestRun_DuplicateDaysCountOnce(t *testing.T) {
	eng := &flatEngine{value: 1}
	history := []model.UsageRecord{
		{Date: day(2024, 3, 1).Add(2 * time.Hour), CreditsUsed: 1},
		{Date: day(2024, 3, 1).Add(9 * time.Hour), CreditsUsed: 2},
	}
	_, err := Run(context.Background(), eng, Input{History: history, HorizonDays: 5, Price: 1})
	var ih *InsufficientHistoryError
	if !errors.As(err, &ih) || ih.Have != 1 {
		t.Fatalf("err = %v, want InsufficientHistoryError with Have 1", err)
	}
}

func TestRun_MinHistoryRaised(t *testing.T) {
	eng := &flatEngine{value: 1}
	_, err := Run(context.Background(), eng, Input{
		History:        constantHistory(day(2024, 3, 1), 10, 1),
		HorizonDays:    5,
		MinHistoryDays: 14,
	})
	var ih *InsufficientHistoryError
	if !errors.As(err, &ih) || ih.Need != 14 {
		t.Fatalf("err = %v, want InsufficientHistoryError with Need 14", err)
	}
}

func TestRun_InvalidInput(t *testing.T) {
	history := constantHistory(day(2024, 3, 1), 10, 1)
	tests := []struct {
		name  string
		input Input
		want  error
		msg   string
	}{
		{"negative price", Input{History: history, HorizonDays: 5, Price: -1}, ErrInvalidPrice, "Price per credit"},
		{"nan price", Input{History: history, HorizonDays: 5, Price: math.NaN()}, ErrInvalidPrice, "Price per credit"},
		{"negative horizon", Input{History: history, HorizonDays: -1, Price: 1}, ErrInvalidHorizon, "horizon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &flatEngine{value: 1}
			_, err := Run(context.Background(), eng, tt.input)
			if !errors.Is(err, tt.want) || !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if got := UserMessage(err); !strings.Contains(got, tt.msg) {
				t.Fatalf("UserMessage = %q, want it to mention %q", got, tt.msg)
			}
			if eng.calls != 0 {
				t.Fatalf("engine calls = %d, want 0", eng.calls)
			}
		})
	}
}

func TestRun_EngineMinimumRaisesFloor(t *testing.T) {
	eng := &flatEngine{value: 1, minDays: 7}
	_, err := Run(context.Background(), eng, Input{
		History:     constantHistory(day(2024, 3, 1), 5, 1),
		HorizonDays: 5,
		Price:       1,
	})
	var ih *InsufficientHistoryError
	if !errors.As(err, &ih) || ih.Have != 5 || ih.Need != 7 {
		t.Fatalf("err = %v, want InsufficientHistoryError 5/7", err)
	}
	if eng.calls != 0 {
		t.Fatalf("engine calls = %d, want 0", eng.calls)
	}
}

func TestRun_ForecasterShortHistory(t *testing.T) {
	_, err := Run(context.Background(), forecast.Forecaster{}, Input{
		History:     constantHistory(day(2024, 1, 1), 5, 10),
		HorizonDays: 10,
		Price:       2,
	})
	var ih *InsufficientHistoryError
	if !errors.As(err, &ih) {
		t.Fatalf("err = %v, want InsufficientHistoryError", err)
	}
	if want := (forecast.Forecaster{}).MinHistory(); ih.Have != 5 || ih.Need != want {
		t.Fatalf("Have/Need = %d/%d, want 5/%d", ih.Have, ih.Need, want)
	}
	if got := UserMessage(err); !strings.Contains(got, "need at least 14") {
		t.Fatalf("UserMessage = %q", got)
	}
}

func TestRun_EngineErrorWrapped(t *testing.T) {
	eng := &flatEngine{err: errors.New("singular matrix")}
	_, err := Run(context.Background(), eng, Input{
		History:     constantHistory(day(2024, 3, 1), 10, 1),
		HorizonDays: 5,
		Price:       1,
	})
	if !errors.Is(err, forecast.ErrEngine) {
		t.Fatalf("err = %v, want ErrEngine", err)
	}
}

func TestRun_LinearEngine(t *testing.T) {
	res, err := Run(context.Background(), forecast.Linear{}, Input{
		History:     constantHistory(day(2024, 1, 1), 60, 4),
		HorizonDays: 20,
		Price:       2,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	last := res.Daily[len(res.Daily)-1]
	if math.Abs(last.Forecast-4) > 1e-6 {
		t.Fatalf("last forecast = %v, want 4", last.Forecast)
	}
	if last.Actual != nil {
		t.Fatalf("future day has actual %v", *last.Actual)
	}
}

func TestNormalize(t *testing.T) {
	in := []model.UsageRecord{
		{Date: day(2024, 1, 3), CreditsUsed: 3},
		{Date: day(2024, 1, 1).Add(23 * time.Hour), CreditsUsed: 1},
		{Date: day(2024, 1, 1).Add(time.Hour), CreditsUsed: 0.5},
		{Date: day(2024, 1, 2), CreditsUsed: 2},
	}
	want := []model.UsageRecord{
		{Date: day(2024, 1, 1), CreditsUsed: 1.5},
		{Date: day(2024, 1, 2), CreditsUsed: 2},
		{Date: day(2024, 1, 3), CreditsUsed: 3},
	}
	if diff := cmp.Diff(want, Normalize(in)); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

// Package pipeline turns daily usage history into merged actual-vs-forecast
// series and monthly cost aggregates.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/theirongolddev/creditcast/internal/dates"
	"github.com/theirongolddev/creditcast/internal/forecast"
	"github.com/theirongolddev/creditcast/internal/model"
)

// MinHistoryDays is the fewest distinct days a model can be fit to.
const MinHistoryDays = 2

var (
	// ErrInvalidInput indicates a request the pipeline cannot run with.
	ErrInvalidInput = errors.New("pipeline: invalid input")
	// ErrInvalidPrice is the invalid input for a negative or non-finite price.
	ErrInvalidPrice = fmt.Errorf("%w: price per credit", ErrInvalidInput)
	// ErrInvalidHorizon is the invalid input for a negative horizon.
	ErrInvalidHorizon = fmt.Errorf("%w: horizon", ErrInvalidInput)
)

// InsufficientHistoryError reports too few distinct days to fit a model.
type InsufficientHistoryError struct {
	Have int
	Need int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("pipeline: insufficient history: %d distinct day(s), need at least %d", e.Have, e.Need)
}

// Input is one pipeline invocation.
type Input struct {
	History     []model.UsageRecord
	HorizonDays int
	Price       float64
	// MinHistoryDays raises the floor above MinHistoryDays and the engine's
	// own minimum; lower values are ignored.
	MinHistoryDays int
}

// Result is the data contract the presentation layer renders.
type Result struct {
	Daily   []model.MergedRecord     `json:"daily"`
	Monthly []model.MonthlyAggregate `json:"monthly"`
}

// Run validates the history, forecasts it, merges actuals onto the forecast
// and aggregates by month. The engine is not invoked when validation fails.
func Run(ctx context.Context, engine forecast.Engine, in Input) (*Result, error) {
	if err := ValidatePrice(in.Price); err != nil {
		return nil, err
	}
	if in.HorizonDays < 0 {
		return nil, fmt.Errorf("%w must be zero or more days, got %d", ErrInvalidHorizon, in.HorizonDays)
	}

	history := Normalize(in.History)
	need := max(in.MinHistoryDays, MinHistoryDays, engine.MinHistory())
	if len(history) < need {
		return nil, &InsufficientHistoryError{Have: len(history), Need: need}
	}

	predicted, err := engine.FitPredict(ctx, history, in.HorizonDays)
	if err != nil {
		if errors.Is(err, forecast.ErrEngine) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", forecast.ErrEngine, err)
	}

	daily, err := Merge(predicted, history)
	if err != nil {
		return nil, err
	}

	return &Result{
		Daily:   daily,
		Monthly: AggregateMonthly(daily, in.Price),
	}, nil
}

// ValidatePrice rejects negative and non-finite prices per credit.
func ValidatePrice(p float64) error {
	if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return fmt.Errorf("%w must be a non-negative number, got %v", ErrInvalidPrice, p)
	}
	return nil
}

// Normalize truncates dates to UTC calendar days, sums records that share a
// day and sorts ascending.
func Normalize(history []model.UsageRecord) []model.UsageRecord {
	index := make(map[int64]int, len(history))
	out := make([]model.UsageRecord, 0, len(history))
	for _, r := range history {
		day := dates.Day(r.Date)
		if i, ok := index[day.Unix()]; ok {
			out[i].CreditsUsed += r.CreditsUsed
			continue
		}
		index[day.Unix()] = len(out)
		out = append(out, model.UsageRecord{Date: day, CreditsUsed: r.CreditsUsed})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

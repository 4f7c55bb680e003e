// Package model defines domain types for credit usage history and forecasts.
package model

import "time"

// UsageRecord is the observed credit usage for one calendar day.
type UsageRecord struct {
	Date        time.Time `json:"date"`
	CreditsUsed float64   `json:"credits_used"`
}

// ForecastRecord is the forecast engine's output for one calendar day.
// Engines emit one for every day from the first historical date through the horizon.
type ForecastRecord struct {
	Date           time.Time `json:"date"`
	Predicted      float64   `json:"predicted"`
	Trend          float64   `json:"trend"`
	PredictedLower float64   `json:"predicted_lower"`
	PredictedUpper float64   `json:"predicted_upper"`
}

// MergedRecord joins a forecast day with its observed usage, if any.
type MergedRecord struct {
	Date     time.Time `json:"date"`
	Actual   *float64  `json:"actual"` // nil for future days and history gaps
	Forecast float64   `json:"forecast"`
	Lower    float64   `json:"lower"`
	Upper    float64   `json:"upper"`
}

// ActualOrZero returns the observed value, or 0 when the day has none.
func (r MergedRecord) ActualOrZero() float64 {
	if r.Actual == nil {
		return 0
	}
	return *r.Actual
}

// MonthlyAggregate holds summed credits and costs for one calendar month.
type MonthlyAggregate struct {
	Month        time.Time `json:"month"`
	Label        string    `json:"label"`
	ActualSum    float64   `json:"actual_sum"`
	ForecastSum  float64   `json:"forecast_sum"`
	ActualCost   float64   `json:"actual_cost"`
	ForecastCost float64   `json:"forecast_cost"`
}

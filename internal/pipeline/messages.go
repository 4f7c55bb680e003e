package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/creditcast/internal/forecast"
	"github.com/theirongolddev/creditcast/internal/warehouse"
)

// Error kinds reported by Kind.
const (
	KindAuthentication      = "authentication"
	KindQuery               = "query"
	KindInsufficientHistory = "insufficient_history"
	KindForecastEngine      = "forecast_engine"
	KindInvalidInput        = "invalid_input"
	KindCanceled            = "canceled"
	KindInternal            = "internal"
)

// Kind classifies err for metrics labels and JSON responses.
func Kind(err error) string {
	var ih *InsufficientHistoryError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, warehouse.ErrAuthentication):
		return KindAuthentication
	case errors.Is(err, warehouse.ErrQuery):
		return KindQuery
	case errors.As(err, &ih):
		return KindInsufficientHistory
	case errors.Is(err, forecast.ErrEngine):
		return KindForecastEngine
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindInternal
	}
}

// UserMessage turns err into a sentence fit to show next to the form.
func UserMessage(err error) string {
	var ih *InsufficientHistoryError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, warehouse.ErrMissingCredentials):
		return "Oops, looks like we are missing some connection details."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was canceled before the forecast finished."
	case errors.Is(err, warehouse.ErrAuthentication):
		return "Could not sign in to the warehouse. Check the username, password, account and role."
	case errors.Is(err, warehouse.ErrQuery):
		return "The usage query failed: " + err.Error()
	case errors.As(err, &ih):
		return fmt.Sprintf("Not enough usage history to forecast: found %d day(s), need at least %d.", ih.Have, ih.Need)
	case errors.Is(err, forecast.ErrEngine):
		return "The forecast model could not be fit to this history."
	case errors.Is(err, ErrInvalidPrice):
		return "Price per credit must be a number of zero or more."
	case errors.Is(err, ErrInvalidHorizon):
		return "The forecast horizon must be zero or more days."
	case errors.Is(err, ErrInvalidInput):
		return "The request is invalid: " + err.Error()
	default:
		return "Something went wrong: " + err.Error()
	}
}

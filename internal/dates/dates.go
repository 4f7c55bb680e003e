// Package dates provides calendar helpers for the forecast horizon and monthly buckets.
//
// All values are calendar dates: time.Time at 00:00 UTC.
package dates

import "time"

// Layout is the canonical calendar-date format.
const Layout = "2006-01-02"

// MonthLabelLayout renders month buckets as e.g. "Jan-2024".
const MonthLabelLayout = "Jan-2006"

// HorizonMonths is how many calendar months past today the forecast extends.
const HorizonMonths = 6

// Day truncates t to its calendar date in UTC, keeping the wall-clock date of t.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of the month containing t.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns the last calendar day of the month containing t.
// Day 0 of the following month normalizes to the last day of this one.
func EndOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	return EndOfMonth(t).Day()
}

// DaysBetween returns the absolute number of calendar days between a and b.
// Counting from Unix seconds avoids the ~292 year limit of time.Duration.
func DaysBetween(a, b time.Time) int {
	const secondsPerDay = 24 * 60 * 60
	d := (Day(b).Unix() - Day(a).Unix()) / secondsPerDay
	if d < 0 {
		d = -d
	}
	return int(d)
}

// AddMonths moves t forward by n calendar months, anchored at the first of the
// month so that Aug 31 + 6 lands in February instead of overflowing into March.
func AddMonths(t time.Time, n int) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

// HorizonEnd returns the last day of the month HorizonMonths after today.
func HorizonEnd(today time.Time) time.Time {
	return EndOfMonth(AddMonths(today, HorizonMonths))
}

// ForecastHorizon returns the number of days from today to HorizonEnd(today).
func ForecastHorizon(today time.Time) int {
	return DaysBetween(today, HorizonEnd(today))
}

// MonthLabel formats the month containing t, e.g. "Jan-2024".
func MonthLabel(t time.Time) string {
	return t.Format(MonthLabelLayout)
}

// Parse parses a YYYY-MM-DD calendar date.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}

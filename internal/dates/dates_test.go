package dates

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestEndOfMonth_EveryMonth(t *testing.T) {
	want := map[time.Month]int{
		time.January: 31, time.February: 28, time.March: 31, time.April: 30,
		time.May: 31, time.June: 30, time.July: 31, time.August: 31,
		time.September: 30, time.October: 31, time.November: 30, time.December: 31,
	}

	for _, year := range []int{2023, 2024, 2100, 2000} {
		leap := year%4 == 0 && (year%100 != 0 || year%400 == 0)
		for m := time.January; m <= time.December; m++ {
			days := want[m]
			if m == time.February && leap {
				days = 29
			}
			for day := 1; day <= days; day++ {
				d := time.Date(year, m, day, 13, 45, 0, 0, time.UTC)
				eom := EndOfMonth(d)
				if eom.Day() != days {
					t.Fatalf("EndOfMonth(%s).Day() = %d, want %d", d.Format(Layout), eom.Day(), days)
				}
				if eom.Month() != m || eom.Year() != year {
					t.Fatalf("EndOfMonth(%s) = %s, left the month", d.Format(Layout), eom.Format(Layout))
				}
			}
		}
	}
}

func TestEndOfMonth_LateDays(t *testing.T) {
	// A fixed 31-day offset gets these wrong.
	cases := map[string]string{
		"2024-04-30": "2024-04-30",
		"2024-02-29": "2024-02-29",
		"2023-02-28": "2023-02-28",
		"2024-06-29": "2024-06-30",
		"2024-01-31": "2024-01-31",
	}
	for in, want := range cases {
		got := EndOfMonth(mustDate(t, in)).Format(Layout)
		if got != want {
			t.Errorf("EndOfMonth(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestDaysBetween_Symmetric(t *testing.T) {
	base := mustDate(t, "2023-11-03")
	for i := -400; i <= 400; i += 7 {
		other := base.AddDate(0, 0, i)
		ab := DaysBetween(base, other)
		ba := DaysBetween(other, base)
		if ab != ba {
			t.Fatalf("DaysBetween asymmetric for offset %d: %d vs %d", i, ab, ba)
		}
		want := i
		if want < 0 {
			want = -want
		}
		if ab != want {
			t.Fatalf("DaysBetween offset %d = %d, want %d", i, ab, want)
		}
	}
}

func TestDaysBetween_Centuries(t *testing.T) {
	a := mustDate(t, "1700-01-01")
	b := mustDate(t, "2300-01-01")
	ab, ba := DaysBetween(a, b), DaysBetween(b, a)
	if ab != 219145 || ba != 219145 {
		t.Fatalf("DaysBetween = %d / %d, want 219145 both ways", ab, ba)
	}
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 3, 2, 0, 1, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 1 {
		t.Fatalf("DaysBetween = %d, want 1", got)
	}
}

func TestForecastHorizon(t *testing.T) {
	today := mustDate(t, "2024-01-15")
	end := mustDate(t, "2024-07-31")

	if got := HorizonEnd(today); !got.Equal(end) {
		t.Fatalf("HorizonEnd = %s, want %s", got.Format(Layout), end.Format(Layout))
	}
	want := DaysBetween(today, end)
	if got := ForecastHorizon(today); got != want || got != 198 {
		t.Fatalf("ForecastHorizon = %d, want %d (198)", got, want)
	}
}

func TestForecastHorizon_MonthEndOverflow(t *testing.T) {
	// Aug 31 + 6 months must land in February, not March.
	today := mustDate(t, "2023-08-31")
	if got := HorizonEnd(today).Format(Layout); got != "2024-02-29" {
		t.Fatalf("HorizonEnd = %s, want 2024-02-29", got)
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel(mustDate(t, "2024-01-15")); got != "Jan-2024" {
		t.Fatalf("MonthLabel = %q, want Jan-2024", got)
	}
	if got := MonthStart(mustDate(t, "2024-12-31")).Format(Layout); got != "2024-12-01" {
		t.Fatalf("MonthStart = %s, want 2024-12-01", got)
	}
}

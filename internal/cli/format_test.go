package cli

import (
	"testing"
	"time"
)

func TestFormatCredits(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{9.96, "10.0"},
		{1234.56, "1,234.6"},
		{1234567, "1,234,567.0"},
		{-42.25, "-42.2"},
	}
	for _, tt := range tests {
		if got := FormatCredits(tt.in); got != tt.want {
			t.Errorf("FormatCredits(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{2, "$2.00"},
		{450, "$450.00"},
		{1234.5, "$1,234.50"},
		{-3.5, "-$3.50"},
	}
	for _, tt := range tests {
		if got := FormatCost(tt.in); got != tt.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{350 * time.Millisecond, "350ms"},
		{2400 * time.Millisecond, "2.4s"},
		{95 * time.Second, "1m 35s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidatePrice(t *testing.T) {
	for _, ok := range []string{"0", "2", "2.00", "0.5"} {
		if err := ValidatePrice(ok); err != nil {
			t.Errorf("ValidatePrice(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"", "-1", "free", "NaN"} {
		if err := ValidatePrice(bad); err == nil {
			t.Errorf("ValidatePrice(%q) = nil, want error", bad)
		}
	}
}

// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatCredits formats a credit amount with one decimal and comma separators.
// e.g., 1234.56 -> "1,234.6"
func FormatCredits(v float64) string {
	return formatFixed(v, 1)
}

// FormatCost formats a USD cost with cents and comma separators.
// e.g., 1234.5 -> "$1,234.50"
func FormatCost(cost float64) string {
	if cost < 0 {
		return "-$" + formatFixed(-cost, 2)
	}
	return "$" + formatFixed(cost, 2)
}

// FormatPrice formats a per-credit price.
func FormatPrice(p float64) string {
	return fmt.Sprintf("$%.2f/credit", p)
}

// FormatDuration formats short wall times.
// e.g., 350ms -> "350ms", 2.4s -> "2.4s", 95s -> "1m 35s"
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		secs := int64(d.Round(time.Second).Seconds())
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

func formatFixed(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	neg := strings.HasPrefix(s, "-")
	whole, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return s
	}
	out := FormatNumber(n)
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

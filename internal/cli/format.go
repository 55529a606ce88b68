// Package cli provides formatting and rendering utilities for plain
// terminal output.
package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatML formats a milliliter amount, e.g. 1250 -> "1,250 ml".
func FormatML(ml int) string {
	return FormatNumber(int64(ml)) + " ml"
}

// FormatLiters formats milliliters as liters with two decimals.
func FormatLiters(ml int) string {
	return fmt.Sprintf("%.2f L", float64(ml)/1000)
}

// FormatPercent formats a 0-1 float as a whole percentage.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// FormatAgo describes t relative to now ("12 minutes ago"). The zero
// time reads as "never".
func FormatAgo(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if now.Sub(t) < time.Minute && !t.After(now) {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 2m", 125 -> "2m", 45 -> "45s"
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	hours := secs / 3600
	mins := (secs % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

// HourlyTotals buckets amounts into the 24 hours of the day they were logged.
func HourlyTotals(at []time.Time, amounts []int) []float64 {
	out := make([]float64, 24)
	for i := range at {
		if i >= len(amounts) {
			break
		}
		out[at[i].Hour()] += float64(amounts[i])
	}
	return out
}

package core

import (
	"fmt"
	"math"
	"time"
)

// BuildWindow converts a (used-percent, window-length, reset-instant) triple
// into a UsageWindow, deriving the remaining percentage, countdown, and
// formatted reset strings. Any nil input simply leaves the derived fields
// nil; the function never fails.
func BuildWindow(usedPercent *float64, windowSeconds *int64, resetAt *time.Time, valueLabel string) UsageWindow {
	return buildWindowAt(usedPercent, windowSeconds, resetAt, valueLabel, time.Now())
}

func buildWindowAt(usedPercent *float64, windowSeconds *int64, resetAt *time.Time, valueLabel string, now time.Time) UsageWindow {
	w := UsageWindow{
		WindowSeconds: windowSeconds,
		ValueLabel:    valueLabel,
	}

	if usedPercent != nil && !math.IsNaN(*usedPercent) && !math.IsInf(*usedPercent, 0) {
		used := clampPercent(*usedPercent)
		remaining := clampPercent(100 - used)
		w.UsedPercent = &used
		w.RemainingPercent = &remaining
	}

	if resetAt != nil && !resetAt.IsZero() {
		millis := resetAt.UnixMilli()
		w.ResetAt = &millis
		after := CountdownSeconds(*resetAt, now)
		w.ResetAfterSeconds = &after
		if formatted := FormatResetTime(*resetAt, now); formatted != "" {
			w.ResetAtFormatted = &formatted
		}
		if countdown := FormatCountdown(after); countdown != "" {
			w.ResetAfterFormatted = &countdown
		}
	}

	return w
}

// CountdownSeconds is the non-negative number of whole seconds until reset.
func CountdownSeconds(resetAt, now time.Time) int64 {
	seconds := int64(math.Floor(resetAt.Sub(now).Seconds()))
	if seconds < 0 {
		return 0
	}
	return seconds
}

// FormatResetTime renders a reset instant as time-only when it falls on the
// current calendar day, otherwise with the month, day, and weekday. An
// unusable instant yields "" rather than an error.
func FormatResetTime(resetAt, now time.Time) string {
	if resetAt.IsZero() {
		return ""
	}
	local := resetAt.In(now.Location())
	ry, rm, rd := local.Date()
	ny, nm, nd := now.Date()
	if ry == ny && rm == nm && rd == nd {
		return local.Format("3:04 PM")
	}
	return local.Format("Jan 2, Monday 3:04 PM")
}

// FormatCountdown renders a second count as a compact duration ("2d 4h",
// "1h 12m", "45m").
func FormatCountdown(seconds int64) string {
	if seconds < 0 {
		return ""
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// FloatPtr and Int64Ptr are small helpers for building windows from literal
// or computed values.
func FloatPtr(v float64) *float64 { return &v }

func Int64Ptr(v int64) *int64 { return &v }

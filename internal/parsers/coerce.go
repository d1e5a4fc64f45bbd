// Package parsers holds the defensive coercion helpers that stand between
// loosely-typed upstream payloads and the canonical usage model. Every
// function here is total: ambiguous or malformed input degrades to nil, never
// to a panic or an error, so that a single bad field cannot abort a
// provider's whole result.
package parsers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// epochMillisThreshold disambiguates epoch seconds from epoch milliseconds:
// values below it are treated as seconds and scaled.
const epochMillisThreshold = 1_000_000_000_000

// Number coerces a JSON value into a finite float64. Accepts numbers and
// numeric strings; NaN, infinities, and everything else yield nil.
func Number(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Timestamp coerces an epoch value (seconds or milliseconds) or a date
// string into a time. Invalid input yields nil.
func Timestamp(v any) *time.Time {
	if n := Number(v); n != nil {
		millis := *n
		if millis <= 0 {
			return nil
		}
		if millis < epochMillisThreshold {
			millis *= 1000
		}
		t := time.UnixMilli(int64(millis))
		return &t
	}

	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// DurationSeconds maps a (count, unit) pair into seconds. Units outside
// minute/hour/day, or a non-positive count, yield nil.
func DurationSeconds(count float64, unit string) *int64 {
	if count <= 0 {
		return nil
	}
	var per int64
	switch strings.ToLower(strings.TrimSpace(strings.TrimSuffix(unit, "s"))) {
	case "minute", "min", "m":
		per = 60
	case "hour", "hr", "h":
		per = 3600
	case "day", "d":
		per = 86400
	default:
		return nil
	}
	seconds := int64(count * float64(per))
	if seconds <= 0 {
		return nil
	}
	return &seconds
}

// Percent coerces a value into a finite percentage clamped to [0,100].
func Percent(v any) *float64 {
	n := Number(v)
	if n == nil {
		return nil
	}
	p := *n
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return &p
}

package parsers

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestNumber(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want *float64
	}{
		{"float", 42.5, fp(42.5)},
		{"int", 7, fp(7)},
		{"numeric string", "19.25", fp(19.25)},
		{"padded string", "  3 ", fp(3)},
		{"json number", json.Number("88"), fp(88)},
		{"empty string", "", nil},
		{"garbage string", "eleven", nil},
		{"nan", math.NaN(), nil},
		{"inf", math.Inf(1), nil},
		{"nil", nil, nil},
		{"bool", true, nil},
		{"object", map[string]any{}, nil},
	}
	for _, tc := range cases {
		got := Number(tc.in)
		if (got == nil) != (tc.want == nil) {
			t.Errorf("%s: Number(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
			continue
		}
		if got != nil && *got != *tc.want {
			t.Errorf("%s: Number(%v) = %v, want %v", tc.name, tc.in, *got, *tc.want)
		}
	}
}

func TestTimestamp_EpochSecondsVsMillis(t *testing.T) {
	secs := float64(1_750_000_000) // below the 10^12 threshold: seconds
	got := Timestamp(secs)
	if got == nil || got.UnixMilli() != 1_750_000_000_000 {
		t.Fatalf("Timestamp(seconds) = %v", got)
	}

	millis := float64(1_750_000_000_000)
	got = Timestamp(millis)
	if got == nil || got.UnixMilli() != 1_750_000_000_000 {
		t.Fatalf("Timestamp(millis) = %v", got)
	}
}

func TestTimestamp_ISOString(t *testing.T) {
	got := Timestamp("2026-03-14T21:56:00Z")
	if got == nil {
		t.Fatal("Timestamp(ISO) = nil")
	}
	want := time.Date(2026, 3, 14, 21, 56, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Timestamp(ISO) = %v, want %v", got, want)
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	for _, in := range []any{"", "not a date", nil, float64(0), float64(-5), []int{1}} {
		if got := Timestamp(in); got != nil {
			t.Errorf("Timestamp(%v) = %v, want nil", in, got)
		}
	}
}

func TestDurationSeconds(t *testing.T) {
	cases := []struct {
		count float64
		unit  string
		want  *int64
	}{
		{1, "hour", ip(3600)},
		{5, "hour", ip(18000)},
		{7, "day", ip(604800)},
		{30, "minute", ip(1800)},
		{2, "hours", ip(7200)},
		{1, "HOUR", ip(3600)},
		{0, "hour", nil},
		{-1, "day", nil},
		{3, "fortnight", nil},
		{3, "", nil},
	}
	for _, tc := range cases {
		got := DurationSeconds(tc.count, tc.unit)
		if (got == nil) != (tc.want == nil) {
			t.Errorf("DurationSeconds(%v, %q) = %v, want %v", tc.count, tc.unit, got, tc.want)
			continue
		}
		if got != nil && *got != *tc.want {
			t.Errorf("DurationSeconds(%v, %q) = %d, want %d", tc.count, tc.unit, *got, *tc.want)
		}
	}
}

func TestPercent_Clamps(t *testing.T) {
	if got := Percent(140.0); got == nil || *got != 100 {
		t.Fatalf("Percent(140) = %v, want 100", got)
	}
	if got := Percent(-3.0); got == nil || *got != 0 {
		t.Fatalf("Percent(-3) = %v, want 0", got)
	}
	if got := Percent("52.5"); got == nil || *got != 52.5 {
		t.Fatalf("Percent(\"52.5\") = %v, want 52.5", got)
	}
	if got := Percent("x"); got != nil {
		t.Fatalf("Percent(garbage) = %v, want nil", got)
	}
}

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }

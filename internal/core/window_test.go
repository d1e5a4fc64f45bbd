package core

import (
	"testing"
	"time"
)

func TestBuildWindow_DerivesRemainingPercent(t *testing.T) {
	w := BuildWindow(FloatPtr(42), Int64Ptr(18000), nil, "")

	if w.UsedPercent == nil || *w.UsedPercent != 42 {
		t.Fatalf("UsedPercent = %v, want 42", w.UsedPercent)
	}
	if w.RemainingPercent == nil || *w.RemainingPercent != 58 {
		t.Fatalf("RemainingPercent = %v, want 58", w.RemainingPercent)
	}
	if w.WindowSeconds == nil || *w.WindowSeconds != 18000 {
		t.Fatalf("WindowSeconds = %v, want 18000", w.WindowSeconds)
	}
	if w.ResetAt != nil || w.ResetAfterSeconds != nil {
		t.Fatalf("reset fields should be nil without a reset instant")
	}
}

func TestBuildWindow_ClampsPercent(t *testing.T) {
	cases := []struct {
		used          float64
		wantUsed      float64
		wantRemaining float64
	}{
		{-10, 0, 100},
		{0, 0, 100},
		{100, 100, 0},
		{140, 100, 0},
	}
	for _, tc := range cases {
		w := BuildWindow(FloatPtr(tc.used), nil, nil, "")
		if *w.UsedPercent != tc.wantUsed {
			t.Errorf("used=%v: UsedPercent = %v, want %v", tc.used, *w.UsedPercent, tc.wantUsed)
		}
		if *w.RemainingPercent != tc.wantRemaining {
			t.Errorf("used=%v: RemainingPercent = %v, want %v", tc.used, *w.RemainingPercent, tc.wantRemaining)
		}
	}
}

func TestBuildWindow_NilUsedPercent(t *testing.T) {
	w := BuildWindow(nil, nil, nil, "$3.50 remaining")
	if w.UsedPercent != nil || w.RemainingPercent != nil {
		t.Fatalf("percent fields should stay nil")
	}
	if w.ValueLabel != "$3.50 remaining" {
		t.Fatalf("ValueLabel = %q", w.ValueLabel)
	}
}

func TestBuildWindow_CountdownNeverNegative(t *testing.T) {
	now := time.Now()
	past := now.Add(-3 * time.Hour)

	w := buildWindowAt(nil, nil, &past, "", now)
	if w.ResetAfterSeconds == nil || *w.ResetAfterSeconds != 0 {
		t.Fatalf("ResetAfterSeconds = %v, want 0 for past reset", w.ResetAfterSeconds)
	}
	if w.ResetAt == nil || *w.ResetAt != past.UnixMilli() {
		t.Fatalf("ResetAt = %v, want %d", w.ResetAt, past.UnixMilli())
	}
}

func TestBuildWindow_CountdownFloor(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	reset := now.Add(90*time.Second + 400*time.Millisecond)

	w := buildWindowAt(nil, nil, &reset, "", now)
	if *w.ResetAfterSeconds != 90 {
		t.Fatalf("ResetAfterSeconds = %d, want 90", *w.ResetAfterSeconds)
	}
}

func TestFormatResetTime_SameDayIsTimeOnly(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	reset := time.Date(2026, 3, 14, 21, 56, 0, 0, time.UTC)

	if got := FormatResetTime(reset, now); got != "9:56 PM" {
		t.Fatalf("FormatResetTime same day = %q, want %q", got, "9:56 PM")
	}
}

func TestFormatResetTime_OtherDayIncludesDate(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	reset := time.Date(2026, 3, 16, 9, 5, 0, 0, time.UTC)

	if got := FormatResetTime(reset, now); got != "Mar 16, Monday 9:05 AM" {
		t.Fatalf("FormatResetTime other day = %q, want %q", got, "Mar 16, Monday 9:05 AM")
	}
}

func TestFormatResetTime_ZeroInstant(t *testing.T) {
	if got := FormatResetTime(time.Time{}, time.Now()); got != "" {
		t.Fatalf("FormatResetTime zero = %q, want empty", got)
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0m"},
		{45 * 60, "45m"},
		{3600 + 12*60, "1h 12m"},
		{2*86400 + 4*3600, "2d 4h"},
	}
	for _, tc := range cases {
		if got := FormatCountdown(tc.seconds); got != tc.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestResultConstructors_ErrorOKExclusivity(t *testing.T) {
	results := []ProviderResult{
		NotConfiguredResult("claude", "Claude"),
		FailureResult("claude", "Claude", "API error: 429"),
		FailureResult("claude", "Claude", ""),
		SuccessResult("claude", "Claude", ProviderUsage{}),
		UnsupportedResult("nope"),
	}
	for _, r := range results {
		if r.OK && r.Error != "" {
			t.Errorf("%+v: ok result must not carry an error", r)
		}
		if !r.OK && r.Error == "" {
			t.Errorf("%+v: failed result must carry an error", r)
		}
		if r.FetchedAt <= 0 {
			t.Errorf("%+v: FetchedAt not assigned", r)
		}
	}
}

func TestNotConfiguredResult_Fields(t *testing.T) {
	r := NotConfiguredResult("minimax", "MiniMax")
	if r.Configured || r.OK {
		t.Fatalf("configured/ok = %v/%v, want false/false", r.Configured, r.OK)
	}
	if r.Error != "Not configured" {
		t.Fatalf("Error = %q", r.Error)
	}
}

func TestFailureResult_DefaultMessage(t *testing.T) {
	r := FailureResult("zai", "Z.AI", "")
	if !r.Configured {
		t.Fatalf("failure result must be configured")
	}
	if r.Error != "Request failed" {
		t.Fatalf("Error = %q, want Request failed", r.Error)
	}
}

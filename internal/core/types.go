package core

import "time"

// UsageWindow is the canonical view of one bounded quota window: a used
// percentage measured against a window length, plus the expected reset
// instant in both machine and human form. Every per-provider fetcher funnels
// its native response shape through BuildWindow so consumers see exactly one
// shape regardless of upstream format.
type UsageWindow struct {
	UsedPercent         *float64 `json:"usedPercent"`
	RemainingPercent    *float64 `json:"remainingPercent"`
	WindowSeconds       *int64   `json:"windowSeconds"`
	ResetAfterSeconds   *int64   `json:"resetAfterSeconds"`
	ResetAt             *int64   `json:"resetAt"` // epoch millis
	ResetAtFormatted    *string  `json:"resetAtFormatted"`
	ResetAfterFormatted *string  `json:"resetAfterFormatted"`
	ValueLabel          string   `json:"valueLabel,omitempty"`
}

// ModelUsage carries the windows of a single upstream model.
type ModelUsage struct {
	Windows map[string]UsageWindow `json:"windows"`
}

// ProviderUsage is the usage payload of a successful fetch. Windows is keyed
// by a display label ("5h", "weekly", "credits", ...); Models, when present,
// is keyed by "<sourceId>/<modelName>".
type ProviderUsage struct {
	Windows map[string]UsageWindow `json:"windows"`
	Models  map[string]ModelUsage  `json:"models,omitempty"`
}

// ProviderResult is the complete outcome of one provider fetch. Invariants:
// OK is false whenever Configured is false or the upstream call failed; Error
// is non-empty exactly when OK is false; FetchedAt is assigned once at
// construction.
type ProviderResult struct {
	ProviderID   string         `json:"providerId"`
	ProviderName string         `json:"providerName"`
	OK           bool           `json:"ok"`
	Configured   bool           `json:"configured"`
	Usage        *ProviderUsage `json:"usage"`
	Error        string         `json:"error,omitempty"`
	FetchedAt    int64          `json:"fetchedAt"` // epoch millis
}

// NotConfiguredResult reports that no credential was resolvable for the
// provider. No network call was attempted.
func NotConfiguredResult(id, name string) ProviderResult {
	return ProviderResult{
		ProviderID:   id,
		ProviderName: name,
		OK:           false,
		Configured:   false,
		Error:        "Not configured",
		FetchedAt:    time.Now().UnixMilli(),
	}
}

// FailureResult reports a configured provider whose upstream call failed.
// An empty message degrades to a generic one so the Error/OK invariant holds.
func FailureResult(id, name, message string) ProviderResult {
	if message == "" {
		message = "Request failed"
	}
	return ProviderResult{
		ProviderID:   id,
		ProviderName: name,
		OK:           false,
		Configured:   true,
		Error:        message,
		FetchedAt:    time.Now().UnixMilli(),
	}
}

// SuccessResult wraps a usage payload in an ok result.
func SuccessResult(id, name string, usage ProviderUsage) ProviderResult {
	if usage.Windows == nil {
		usage.Windows = make(map[string]UsageWindow)
	}
	return ProviderResult{
		ProviderID:   id,
		ProviderName: name,
		OK:           true,
		Configured:   true,
		Usage:        &usage,
		FetchedAt:    time.Now().UnixMilli(),
	}
}

// UnsupportedResult is the dispatch fallback for identifiers outside the
// known provider set.
func UnsupportedResult(id string) ProviderResult {
	return ProviderResult{
		ProviderID: id,
		OK:         false,
		Configured: false,
		Error:      "Unsupported provider",
		FetchedAt:  time.Now().UnixMilli(),
	}
}

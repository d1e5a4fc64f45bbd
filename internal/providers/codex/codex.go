// Package codex fetches ChatGPT subscription rate limits: a primary 5-hour
// window and a secondary weekly window.
package codex

import (
	"context"
	"time"

	"github.com/nelsonPires5/openchamber/internal/authstore"
	"github.com/nelsonPires5/openchamber/internal/core"
	"github.com/nelsonPires5/openchamber/internal/parsers"
	"github.com/nelsonPires5/openchamber/internal/providers/shared"
)

const (
	providerID   = "codex"
	providerName = "Codex"

	defaultBaseURL = "https://chatgpt.com"
)

type Fetcher struct {
	shared.Endpoint
}

func New() *Fetcher {
	return &Fetcher{Endpoint: shared.NewEndpoint(defaultBaseURL)}
}

func (f *Fetcher) ID() string   { return providerID }
func (f *Fetcher) Name() string { return providerName }

func (f *Fetcher) Configured(store authstore.Store) bool {
	return authstore.Resolve(store, providerID).Secret() != ""
}

type usageResponse struct {
	RateLimits struct {
		Primary   *rateWindow `json:"primary"`
		Secondary *rateWindow `json:"secondary"`
	} `json:"rate_limits"`
}

type rateWindow struct {
	UsedPercent     any `json:"used_percent"`
	WindowMinutes   any `json:"window_minutes"`
	ResetsInSeconds any `json:"resets_in_seconds"`
}

func (f *Fetcher) Fetch(ctx context.Context, store authstore.Store) core.ProviderResult {
	cred := authstore.Resolve(store, providerID)
	if cred.Secret() == "" {
		return core.NotConfiguredResult(providerID, providerName)
	}

	headers := shared.BearerHeaders(cred.Secret())
	if cred.AccountID != "" {
		headers["ChatGPT-Account-Id"] = cred.AccountID
	}

	var resp usageResponse
	if err := shared.GetJSON(ctx, f.Client, f.BaseURL+"/backend-api/wham/usage", headers, &resp); err != nil {
		return core.FailureResult(providerID, providerName, shared.FailureMessage(err))
	}

	windows := make(map[string]core.UsageWindow)
	if w := rateLimitWindow(resp.RateLimits.Primary); w != nil {
		windows["5h"] = *w
	}
	if w := rateLimitWindow(resp.RateLimits.Secondary); w != nil {
		windows["weekly"] = *w
	}

	return core.SuccessResult(providerID, providerName, core.ProviderUsage{Windows: windows})
}

func rateLimitWindow(raw *rateWindow) *core.UsageWindow {
	if raw == nil {
		return nil
	}

	used := parsers.Percent(raw.UsedPercent)

	var windowSeconds *int64
	if minutes := parsers.Number(raw.WindowMinutes); minutes != nil {
		windowSeconds = parsers.DurationSeconds(*minutes, "minute")
	}

	var resetAt *time.Time
	if resetsIn := parsers.Number(raw.ResetsInSeconds); resetsIn != nil && *resetsIn > 0 {
		t := time.Now().Add(time.Duration(*resetsIn) * time.Second)
		resetAt = &t
	}

	if used == nil && windowSeconds == nil && resetAt == nil {
		return nil
	}
	w := core.BuildWindow(used, windowSeconds, resetAt, "")
	return &w
}

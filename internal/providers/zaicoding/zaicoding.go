// Package zaicoding fetches the Z.AI coding-plan usage limits: a list of
// windows described by duration/unit pairs, each with its own quota.
package zaicoding

import (
	"context"
	"fmt"
	"strings"

	"github.com/nelsonPires5/openchamber/internal/authstore"
	"github.com/nelsonPires5/openchamber/internal/core"
	"github.com/nelsonPires5/openchamber/internal/parsers"
	"github.com/nelsonPires5/openchamber/internal/providers/shared"
)

const (
	providerID   = "zai-coding-plan"
	providerName = "Z.AI Coding Plan"

	defaultBaseURL = "https://api.z.ai"
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

type limitsResponse struct {
	Data struct {
		Limits []limitEntry `json:"limits"`
	} `json:"data"`
}

type limitEntry struct {
	Window struct {
		Duration any    `json:"duration"`
		Unit     string `json:"unit"`
	} `json:"window"`
	Detail struct {
		Limit     any `json:"limit"`
		Remaining any `json:"remaining"`
		ResetTime any `json:"resetTime"`
	} `json:"detail"`
}

func (f *Fetcher) Fetch(ctx context.Context, store authstore.Store) core.ProviderResult {
	cred := authstore.Resolve(store, providerID)
	if cred.Secret() == "" {
		return core.NotConfiguredResult(providerID, providerName)
	}

	var resp limitsResponse
	err := shared.GetJSON(ctx, f.Client, f.BaseURL+"/api/coding/usage/limits",
		shared.BearerHeaders(cred.Secret()), &resp)
	if err != nil {
		return core.FailureResult(providerID, providerName, shared.FailureMessage(err))
	}

	windows := make(map[string]core.UsageWindow)
	for _, entry := range resp.Data.Limits {
		duration := parsers.Number(entry.Window.Duration)
		if duration == nil {
			continue
		}
		windowSeconds := parsers.DurationSeconds(*duration, entry.Window.Unit)
		if windowSeconds == nil {
			continue
		}

		var used *float64
		limit := parsers.Number(entry.Detail.Limit)
		remaining := parsers.Number(entry.Detail.Remaining)
		if limit != nil && remaining != nil && *limit > 0 {
			u := (*limit - *remaining) / *limit * 100
			used = &u
		}

		resetAt := parsers.Timestamp(entry.Detail.ResetTime)
		windows[windowLabel(*duration, entry.Window.Unit, *windowSeconds)] =
			core.BuildWindow(used, windowSeconds, resetAt, "")
	}

	return core.SuccessResult(providerID, providerName, core.ProviderUsage{Windows: windows})
}

// windowLabel renders "1h", "7d", ... from the duration/unit pair. The exact
// 5-hour window carries the product's display name instead.
func windowLabel(duration float64, unit string, windowSeconds int64) string {
	if windowSeconds == 5*3600 {
		return "Rate Limit (5h)"
	}

	abbrev := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(unit), "s"))
	switch abbrev {
	case "minute", "min", "m":
		abbrev = "m"
	case "hour", "hr", "h":
		abbrev = "h"
	case "day", "d":
		abbrev = "d"
	}
	return fmt.Sprintf("%d%s", int64(duration), abbrev)
}

// Package claude fetches OAuth usage for Claude subscriptions: the 5-hour
// and weekly rate-limit windows plus the extra-usage credits balance.
package claude

import (
	"context"
	"fmt"

	"github.com/nelsonPires5/openchamber/internal/authstore"
	"github.com/nelsonPires5/openchamber/internal/core"
	"github.com/nelsonPires5/openchamber/internal/parsers"
	"github.com/nelsonPires5/openchamber/internal/providers/shared"
)

const (
	providerID   = "claude"
	providerName = "Claude"

	defaultBaseURL = "https://api.anthropic.com"
	oauthBeta      = "oauth-2025-04-20"
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
	FiveHour   *usageBucket `json:"five_hour"`
	SevenDay   *usageBucket `json:"seven_day"`
	ExtraUsage *extraUsage  `json:"extra_usage"`
}

type usageBucket struct {
	Utilization any `json:"utilization"`
	ResetsAt    any `json:"resets_at"`
}

type extraUsage struct {
	IsUnlimited    bool `json:"is_unlimited"`
	RemainingCents any  `json:"remaining_cents"`
}

func (f *Fetcher) Fetch(ctx context.Context, store authstore.Store) core.ProviderResult {
	cred := authstore.Resolve(store, providerID)
	if cred.Secret() == "" {
		return core.NotConfiguredResult(providerID, providerName)
	}

	headers := shared.BearerHeaders(cred.Secret())
	headers["anthropic-beta"] = oauthBeta

	var resp usageResponse
	if err := shared.GetJSON(ctx, f.Client, f.BaseURL+"/api/oauth/usage", headers, &resp); err != nil {
		return core.FailureResult(providerID, providerName, shared.FailureMessage(err))
	}

	windows := make(map[string]core.UsageWindow)
	if w := bucketWindow(resp.FiveHour, 5*3600); w != nil {
		windows["5h"] = *w
	}
	if w := bucketWindow(resp.SevenDay, 7*24*3600); w != nil {
		windows["weekly"] = *w
	}
	if resp.ExtraUsage != nil {
		windows["credits"] = core.BuildWindow(nil, nil, nil, creditsLabel(resp.ExtraUsage))
	}

	return core.SuccessResult(providerID, providerName, core.ProviderUsage{Windows: windows})
}

func bucketWindow(bucket *usageBucket, windowSeconds int64) *core.UsageWindow {
	if bucket == nil {
		return nil
	}
	used := parsers.Percent(bucket.Utilization)
	resetAt := parsers.Timestamp(bucket.ResetsAt)
	if used == nil && resetAt == nil {
		return nil
	}
	w := core.BuildWindow(used, &windowSeconds, resetAt, "")
	return &w
}

func creditsLabel(extra *extraUsage) string {
	if extra.IsUnlimited {
		return "Unlimited"
	}
	cents := parsers.Number(extra.RemainingCents)
	if cents == nil {
		return ""
	}
	return fmt.Sprintf("$%.2f remaining", *cents/100)
}

// Package zai fetches the Z.AI token-quota limit. The upstream payload may
// carry a pre-computed percentage, which is trusted directly; otherwise the
// used/limit ratio is computed here.
package zai

import (
	"context"

	"github.com/nelsonPires5/openchamber/internal/authstore"
	"github.com/nelsonPires5/openchamber/internal/core"
	"github.com/nelsonPires5/openchamber/internal/parsers"
	"github.com/nelsonPires5/openchamber/internal/providers/shared"
)

const (
	providerID   = "zai"
	providerName = "Z.AI"

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

type quotaLimitResponse struct {
	Data struct {
		Limits []limitRow `json:"limits"`
	} `json:"data"`
}

type limitRow struct {
	Type          string `json:"type"`
	Percentage    any    `json:"percentage"`
	Usage         any    `json:"usage"`
	CurrentValue  any    `json:"currentValue"`
	NextResetTime any    `json:"nextResetTime"`
}

func (f *Fetcher) Fetch(ctx context.Context, store authstore.Store) core.ProviderResult {
	cred := authstore.Resolve(store, providerID)
	if cred.Secret() == "" {
		return core.NotConfiguredResult(providerID, providerName)
	}

	var resp quotaLimitResponse
	err := shared.GetJSON(ctx, f.Client, f.BaseURL+"/api/monitor/usage/quota/limit",
		shared.BearerHeaders(cred.Secret()), &resp)
	if err != nil {
		return core.FailureResult(providerID, providerName, shared.FailureMessage(err))
	}

	windows := make(map[string]core.UsageWindow)
	for _, row := range resp.Data.Limits {
		if row.Type != "TOKENS_LIMIT" {
			continue
		}
		used := rowUsedPercent(row)
		resetAt := parsers.Timestamp(row.NextResetTime)
		windows["tokens"] = core.BuildWindow(used, nil, resetAt, "")
		break
	}

	return core.SuccessResult(providerID, providerName, core.ProviderUsage{Windows: windows})
}

// rowUsedPercent prefers the upstream percentage (fractions are scaled to
// 0-100), falling back to currentValue/usage.
func rowUsedPercent(row limitRow) *float64 {
	if pct := parsers.Number(row.Percentage); pct != nil {
		v := *pct
		if v <= 1 {
			v *= 100
		}
		return &v
	}

	limit := parsers.Number(row.Usage)
	current := parsers.Number(row.CurrentValue)
	if limit == nil || current == nil || *limit <= 0 {
		return nil
	}
	v := *current / *limit * 100
	return &v
}

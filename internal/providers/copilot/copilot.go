// Package copilot fetches GitHub Copilot premium-interaction quota as a
// percentage of the plan entitlement.
package copilot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nelsonPires5/openchamber/internal/authstore"
	"github.com/nelsonPires5/openchamber/internal/core"
	"github.com/nelsonPires5/openchamber/internal/parsers"
	"github.com/nelsonPires5/openchamber/internal/providers/shared"
)

const (
	providerID   = "copilot"
	providerName = "GitHub Copilot"

	defaultBaseURL = "https://api.github.com"
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

type userResponse struct {
	QuotaSnapshots struct {
		PremiumInteractions *quotaSnapshot `json:"premium_interactions"`
	} `json:"quota_snapshots"`
	QuotaResetDate string `json:"quota_reset_date"`
}

type quotaSnapshot struct {
	Entitlement any  `json:"entitlement"`
	Remaining   any  `json:"remaining"`
	Unlimited   bool `json:"unlimited"`
}

func (f *Fetcher) Fetch(ctx context.Context, store authstore.Store) core.ProviderResult {
	cred := authstore.Resolve(store, providerID)
	if cred.Secret() == "" {
		return core.NotConfiguredResult(providerID, providerName)
	}

	var resp userResponse
	err := shared.GetJSON(ctx, f.Client, f.BaseURL+"/copilot_internal/user",
		shared.BearerHeaders(cred.Secret()), &resp)
	if err != nil {
		return core.FailureResult(providerID, providerName, shared.FailureMessage(err))
	}

	windows := make(map[string]core.UsageWindow)
	if snap := resp.QuotaSnapshots.PremiumInteractions; snap != nil {
		resetAt := parsers.Timestamp(resp.QuotaResetDate)

		if snap.Unlimited {
			windows["premium"] = core.BuildWindow(nil, nil, resetAt, "Unlimited")
		} else {
			entitlement := parsers.Number(snap.Entitlement)
			remaining := parsers.Number(snap.Remaining)
			used := entitlementUsedPercent(remaining, entitlement)
			windows["premium"] = core.BuildWindow(used, nil, resetAt, entitlementLabel(remaining, entitlement))
		}
	}

	return core.SuccessResult(providerID, providerName, core.ProviderUsage{Windows: windows})
}

// entitlementUsedPercent is 100 - remaining/entitlement*100, nil when either
// side is unusable. BuildWindow clamps the result.
func entitlementUsedPercent(remaining, entitlement *float64) *float64 {
	if remaining == nil || entitlement == nil || *entitlement <= 0 {
		return nil
	}
	used := 100 - (*remaining / *entitlement * 100)
	return &used
}

func entitlementLabel(remaining, entitlement *float64) string {
	if remaining == nil || entitlement == nil {
		return ""
	}
	return fmt.Sprintf("%s / %s left", trimNumber(*remaining), trimNumber(*entitlement))
}

func trimNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

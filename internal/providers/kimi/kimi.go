// Package kimi fetches Moonshot coding-plan quota as a percentage of the
// plan entitlement.
package kimi

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
	providerID   = "kimi"
	providerName = "Kimi"

	defaultBaseURL = "https://api.moonshot.ai"
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

type quotaResponse struct {
	Data struct {
		Total     any `json:"total"`
		Remaining any `json:"remaining"`
		ResetTime any `json:"reset_time"`
	} `json:"data"`
}

func (f *Fetcher) Fetch(ctx context.Context, store authstore.Store) core.ProviderResult {
	cred := authstore.Resolve(store, providerID)
	if cred.Secret() == "" {
		return core.NotConfiguredResult(providerID, providerName)
	}

	var resp quotaResponse
	err := shared.GetJSON(ctx, f.Client, f.BaseURL+"/v1/users/me/coding_quota",
		shared.BearerHeaders(cred.Secret()), &resp)
	if err != nil {
		return core.FailureResult(providerID, providerName, shared.FailureMessage(err))
	}

	total := parsers.Number(resp.Data.Total)
	remaining := parsers.Number(resp.Data.Remaining)
	resetAt := parsers.Timestamp(resp.Data.ResetTime)

	var used *float64
	label := ""
	if total != nil && remaining != nil && *total > 0 {
		u := 100 - (*remaining / *total * 100)
		used = &u
		label = fmt.Sprintf("%s / %s left",
			strconv.FormatFloat(*remaining, 'f', -1, 64),
			strconv.FormatFloat(*total, 'f', -1, 64))
	}

	windows := map[string]core.UsageWindow{
		"plan": core.BuildWindow(used, nil, resetAt, label),
	}
	return core.SuccessResult(providerID, providerName, core.ProviderUsage{Windows: windows})
}

// Package minimax fetches MiniMax coding-plan remains: independent daily and
// monthly tiers plus the account status.
package minimax

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nelsonPires5/openchamber/internal/authstore"
	"github.com/nelsonPires5/openchamber/internal/core"
	"github.com/nelsonPires5/openchamber/internal/parsers"
	"github.com/nelsonPires5/openchamber/internal/providers/shared"
)

const (
	providerID   = "minimax"
	providerName = "MiniMax"

	defaultBaseURL = "https://api.minimax.io"
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

type remainsResponse struct {
	Data struct {
		Status  string `json:"status"`
		Daily   *tier  `json:"daily"`
		Monthly *tier  `json:"monthly"`
	} `json:"data"`
}

type tier struct {
	Rate      any `json:"rate"` // pre-normalized used fraction, 0..1
	Used      any `json:"used"`
	Limit     any `json:"limit"`
	ResetTime any `json:"reset_time"`
}

func (f *Fetcher) Fetch(ctx context.Context, store authstore.Store) core.ProviderResult {
	cred := authstore.Resolve(store, providerID)
	if cred.Secret() == "" {
		return core.NotConfiguredResult(providerID, providerName)
	}

	var resp remainsResponse
	err := shared.GetJSON(ctx, f.Client, f.BaseURL+"/v1/coding_plan/remains",
		shared.BearerHeaders(cred.Secret()), &resp)
	if err != nil {
		return core.FailureResult(providerID, providerName, shared.FailureMessage(err))
	}

	// A non-active account surfaces as a label suffix, not an error.
	suffix := ""
	if status := strings.TrimSpace(resp.Data.Status); status != "" && !strings.EqualFold(status, "active") {
		suffix = fmt.Sprintf(" [%s]", status)
	}

	windows := make(map[string]core.UsageWindow)
	if w := tierWindow(resp.Data.Daily, 24*3600, suffix); w != nil {
		windows["daily"] = *w
	}
	if w := tierWindow(resp.Data.Monthly, 30*24*3600, suffix); w != nil {
		windows["monthly"] = *w
	}

	return core.SuccessResult(providerID, providerName, core.ProviderUsage{Windows: windows})
}

func tierWindow(t *tier, windowSeconds int64, suffix string) *core.UsageWindow {
	if t == nil {
		return nil
	}

	used := parsers.Number(t.Used)
	limit := parsers.Number(t.Limit)

	var usedPercent *float64
	if rate := parsers.Number(t.Rate); rate != nil {
		v := *rate * 100
		usedPercent = &v
	} else if used != nil && limit != nil && *limit > 0 {
		v := *used / *limit * 100
		usedPercent = &v
	}

	label := ""
	if used != nil && limit != nil {
		label = fmt.Sprintf("%s / %s%s",
			strconv.FormatFloat(*used, 'f', -1, 64),
			strconv.FormatFloat(*limit, 'f', -1, 64),
			suffix)
	} else if suffix != "" {
		label = strings.TrimSpace(suffix)
	}

	resetAt := parsers.Timestamp(t.ResetTime)
	w := core.BuildWindow(usedPercent, &windowSeconds, resetAt, label)
	return &w
}

// Package qwen fetches Qwen portal quota tiers over a plain bearer call.
package qwen

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
	providerID   = "qwen"
	providerName = "Qwen"

	defaultBaseURL = "https://portal.qwen.ai"
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
	Data []quotaTier `json:"data"`
}

type quotaTier struct {
	Type      string `json:"type"`
	Used      any    `json:"used"`
	Quota     any    `json:"quota"`
	ResetTime any    `json:"reset_time"`
}

func (f *Fetcher) Fetch(ctx context.Context, store authstore.Store) core.ProviderResult {
	cred := authstore.Resolve(store, providerID)
	if cred.Secret() == "" {
		return core.NotConfiguredResult(providerID, providerName)
	}

	var resp quotaResponse
	err := shared.GetJSON(ctx, f.Client, f.BaseURL+"/api/v1/quota",
		shared.BearerHeaders(cred.Secret()), &resp)
	if err != nil {
		return core.FailureResult(providerID, providerName, shared.FailureMessage(err))
	}

	windows := make(map[string]core.UsageWindow)
	for _, t := range resp.Data {
		label := strings.TrimSpace(t.Type)
		if label == "" {
			label = "quota"
		}

		used := parsers.Number(t.Used)
		quota := parsers.Number(t.Quota)

		var usedPercent *float64
		valueLabel := ""
		if used != nil && quota != nil && *quota > 0 {
			v := *used / *quota * 100
			usedPercent = &v
			valueLabel = fmt.Sprintf("%s / %s",
				strconv.FormatFloat(*used, 'f', -1, 64),
				strconv.FormatFloat(*quota, 'f', -1, 64))
		}

		windows[label] = core.BuildWindow(usedPercent, nil, parsers.Timestamp(t.ResetTime), valueLabel)
	}

	return core.SuccessResult(providerID, providerName, core.ProviderUsage{Windows: windows})
}

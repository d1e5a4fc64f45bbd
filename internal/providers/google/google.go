// Package google aggregates Code Assist usage for the google provider. Two
// independent OAuth sources can back it at once: the gemini-cli client
// registration stored in the credential store, and the active Antigravity
// account read from its account-list files. Usage from every working source
// is merged into one result keyed "<sourceId>/<modelName>".
package google

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nelsonPires5/openchamber/internal/authstore"
	"github.com/nelsonPires5/openchamber/internal/core"
	"github.com/nelsonPires5/openchamber/internal/parsers"
	"github.com/nelsonPires5/openchamber/internal/providers/shared"
)

const (
	providerID   = "google"
	providerName = "Google"

	sourceGeminiCLI   = "gemini-cli"
	sourceAntigravity = "antigravity"
)

// defaultModelHosts is the failover order for the models endpoint. The daily
// hosts may be unreachable or reject a given tenant, so the first host that
// answers 2xx wins.
var defaultModelHosts = []string{
	"https://cloudcode-pa.googleapis.com",
	"https://daily-cloudcode-pa.googleapis.com",
	"https://daily-cloudcode-pa.sandbox.googleapis.com",
}

// DefaultDailyThreshold reclassifies a window as daily when more than this
// much time remains until reset. Product heuristic, overridable via config.
const DefaultDailyThreshold = 10 * time.Hour

type Fetcher struct {
	Client         *http.Client
	TokenURL       string
	ModelHosts     []string
	DailyThreshold time.Duration

	// AccountLookup resolves the active Antigravity account. Swappable in
	// tests; nil disables the antigravity source.
	AccountLookup func() *authstore.AntigravityAccount

	// Antigravity client registration. Falls back to the gemini-cli
	// registration when left empty.
	AntigravityClientID     string
	AntigravityClientSecret string
}

func New() *Fetcher {
	return &Fetcher{
		Client:         shared.NewHTTPClient(),
		TokenURL:       tokenEndpoint,
		ModelHosts:     defaultModelHosts,
		DailyThreshold: DefaultDailyThreshold,
		AccountLookup:  authstore.ActiveAntigravityAccount,
	}
}

func (f *Fetcher) ID() string   { return providerID }
func (f *Fetcher) Name() string { return providerName }

// SetBaseURL overrides the model host failover list with a single host.
func (f *Fetcher) SetBaseURL(baseURL string) {
	f.ModelHosts = []string{strings.TrimSuffix(baseURL, "/")}
}

func (f *Fetcher) SetClient(client *http.Client) { f.Client = client }

func (f *Fetcher) Configured(store authstore.Store) bool {
	return len(f.gatherSources(store)) > 0
}

// authSource is one OAuth client registration capable of producing an access
// token for this provider.
type authSource struct {
	id           string
	dailyOnly    bool
	clientID     string
	clientSecret string
	accessToken  string
	refreshToken string
	projectID    string
	expires      int64 // epoch millis, 0 when unknown
}

// gatherSources assembles the candidate sources in fixed order. A source
// lacking both an access token and a refresh token is inert and excluded.
func (f *Fetcher) gatherSources(store authstore.Store) []*authSource {
	var sources []*authSource

	if cred := authstore.Resolve(store, providerID); cred != nil {
		if cred.Token != "" || cred.RefreshToken != "" {
			sources = append(sources, &authSource{
				id:           sourceGeminiCLI,
				dailyOnly:    true,
				clientID:     geminiClientID,
				clientSecret: geminiClientSecret,
				accessToken:  cred.Token,
				refreshToken: cred.RefreshToken,
				projectID:    cred.ProjectID,
				expires:      cred.Expires,
			})
		}
	}

	if f.AccountLookup != nil {
		if acct := f.AccountLookup(); acct != nil {
			clientID, clientSecret := f.AntigravityClientID, f.AntigravityClientSecret
			if clientID == "" {
				clientID, clientSecret = geminiClientID, geminiClientSecret
			}
			sources = append(sources, &authSource{
				id:           sourceAntigravity,
				clientID:     clientID,
				clientSecret: clientSecret,
				refreshToken: acct.RefreshToken,
				projectID:    acct.ProjectID,
			})
		}
	}

	return sources
}

// Fetch tries every source sequentially and merges their model usage. A
// failed source records an error but never blocks the others; the result is
// a failure only when no source produced any model data.
func (f *Fetcher) Fetch(ctx context.Context, store authstore.Store) core.ProviderResult {
	sources := f.gatherSources(store)
	if len(sources) == 0 {
		return core.NotConfiguredResult(providerID, providerName)
	}

	models := make(map[string]core.ModelUsage)
	firstErr := ""
	for _, src := range sources {
		if err := f.fetchSource(ctx, src, models); err != nil && firstErr == "" {
			firstErr = shared.FailureMessage(err)
		}
	}

	if len(models) == 0 {
		return core.FailureResult(providerID, providerName, firstErr)
	}
	return core.SuccessResult(providerID, providerName, core.ProviderUsage{
		Windows: map[string]core.UsageWindow{},
		Models:  models,
	})
}

func (f *Fetcher) fetchSource(ctx context.Context, src *authSource, models map[string]core.ModelUsage) error {
	token, err := f.ensureAccessToken(ctx, src)
	if err != nil {
		return err
	}

	// Only the gemini-cli product resolves its companion project; failing to
	// resolve one is not fatal, the models call is attempted regardless.
	if src.id == sourceGeminiCLI && src.projectID == "" {
		if projectID, err := f.loadProject(ctx, token); err == nil {
			src.projectID = projectID
		}
	}

	resp, err := f.fetchModels(ctx, token, src.projectID)
	if err != nil {
		return err
	}

	now := time.Now()
	threshold := f.DailyThreshold
	if threshold <= 0 {
		threshold = DefaultDailyThreshold
	}

	for name, info := range resp.Models {
		if info.QuotaInfo == nil || info.QuotaInfo.RemainingFraction == nil {
			continue
		}
		used := (1 - *info.QuotaInfo.RemainingFraction) * 100
		resetAt := parsers.Timestamp(info.QuotaInfo.ResetTime)

		label := "5h"
		windowSeconds := int64(5 * 3600)
		if src.dailyOnly || (resetAt != nil && resetAt.Sub(now) > threshold) {
			label = "daily"
			windowSeconds = 24 * 3600
		}

		window := core.BuildWindow(&used, &windowSeconds, resetAt, "")
		models[src.id+"/"+name] = core.ModelUsage{
			Windows: map[string]core.UsageWindow{label: window},
		}
	}

	return nil
}

type modelsRequest struct {
	Project string `json:"project,omitempty"`
}

type modelsResponse struct {
	Models map[string]modelInfo `json:"models"`
}

type modelInfo struct {
	DisplayName string     `json:"displayName"`
	QuotaInfo   *quotaInfo `json:"quotaInfo"`
}

type quotaInfo struct {
	RemainingFraction *float64 `json:"remainingFraction"`
	ResetTime         string   `json:"resetTime"`
}

// fetchModels posts the models request against each candidate host in order
// and returns the first successful body. A timeout counts the same as any
// other failure for that host.
func (f *Fetcher) fetchModels(ctx context.Context, token, projectID string) (*modelsResponse, error) {
	hosts := f.ModelHosts
	if len(hosts) == 0 {
		hosts = defaultModelHosts
	}

	var lastErr error
	for _, host := range hosts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var resp modelsResponse
		err := shared.PostJSON(ctx, f.Client, host+"/v1internal:fetchAvailableModels",
			shared.BearerHeaders(token), modelsRequest{Project: projectID}, &resp)
		if err != nil {
			lastErr = err
			continue
		}
		return &resp, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no model host available")
	}
	return nil, lastErr
}

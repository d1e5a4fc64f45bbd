// Package providers dispatches usage fetches across the closed set of known
// providers and enumerates which of them the credential store configures.
package providers

import (
	"context"
	"net/http"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/nelsonPires5/openchamber/internal/authstore"
	"github.com/nelsonPires5/openchamber/internal/config"
	"github.com/nelsonPires5/openchamber/internal/core"
	"github.com/nelsonPires5/openchamber/internal/providers/claude"
	"github.com/nelsonPires5/openchamber/internal/providers/codex"
	"github.com/nelsonPires5/openchamber/internal/providers/copilot"
	"github.com/nelsonPires5/openchamber/internal/providers/google"
	"github.com/nelsonPires5/openchamber/internal/providers/kimi"
	"github.com/nelsonPires5/openchamber/internal/providers/minimax"
	"github.com/nelsonPires5/openchamber/internal/providers/qwen"
	"github.com/nelsonPires5/openchamber/internal/providers/zai"
	"github.com/nelsonPires5/openchamber/internal/providers/zaicoding"
)

// Fetcher is the common contract of every per-provider fetcher. Fetch is
// total: it never panics and never returns a Go error, all failure modes end
// up in the result.
type Fetcher interface {
	ID() string
	Name() string
	Configured(store authstore.Store) bool
	Fetch(ctx context.Context, store authstore.Store) core.ProviderResult
}

// All returns fresh fetchers in display order.
func All() []Fetcher {
	return []Fetcher{
		claude.New(),
		codex.New(),
		google.New(),
		copilot.New(),
		kimi.New(),
		zai.New(),
		zaicoding.New(),
		minimax.New(),
		qwen.New(),
	}
}

// Registry is a fetcher set with settings applied.
type Registry struct {
	fetchers []Fetcher
}

func NewRegistry(fetchers ...Fetcher) *Registry {
	if len(fetchers) == 0 {
		fetchers = All()
	}
	return &Registry{fetchers: fetchers}
}

// ApplyConfig wires timeout, base-URL, and google-threshold overrides into
// the fetchers.
func (r *Registry) ApplyConfig(cfg config.Config) *Registry {
	client := &http.Client{Timeout: cfg.Timeout()}
	for _, f := range r.fetchers {
		if s, ok := f.(interface{ SetClient(*http.Client) }); ok {
			s.SetClient(client)
		}
		if u := cfg.BaseURLs[f.ID()]; u != "" {
			if s, ok := f.(interface{ SetBaseURL(string) }); ok {
				s.SetBaseURL(u)
			}
		}
		if g, ok := f.(*google.Fetcher); ok {
			g.DailyThreshold = cfg.DailyThreshold()
		}
	}
	return r
}

// IDs lists the provider identifiers in display order.
func (r *Registry) IDs() []string {
	return lo.Map(r.fetchers, func(f Fetcher, _ int) string { return f.ID() })
}

// FetchForProvider routes an identifier to its fetcher. Unknown identifiers
// yield a uniform unsupported result, never an error, so the facade is safe
// to call with user-supplied or stale ids.
func (r *Registry) FetchForProvider(ctx context.Context, store authstore.Store, providerID string) core.ProviderResult {
	fetcher, found := lo.Find(r.fetchers, func(f Fetcher) bool { return f.ID() == providerID })
	if !found {
		return core.UnsupportedResult(providerID)
	}
	return fetcher.Fetch(ctx, store)
}

// ListConfigured reports which providers have any usable credential, without
// network calls. One stored zai secret configures both the base product and
// the coding plan.
func (r *Registry) ListConfigured(store authstore.Store) []string {
	return lo.FilterMap(r.fetchers, func(f Fetcher, _ int) (string, bool) {
		return f.ID(), f.Configured(store)
	})
}

// FetchAll fetches the given providers concurrently, preserving input order
// in the results. An empty id list means every known provider.
func (r *Registry) FetchAll(ctx context.Context, store authstore.Store, providerIDs []string) []core.ProviderResult {
	if len(providerIDs) == 0 {
		providerIDs = r.IDs()
	}

	results := make([]core.ProviderResult, len(providerIDs))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range providerIDs {
		i, id := i, id
		g.Go(func() error {
			results[i] = r.FetchForProvider(ctx, store, id)
			return nil
		})
	}
	// Fetchers never return errors, the group only carries cancellation.
	_ = g.Wait()
	return results
}

// Package-level convenience over a default registry.

func IDs() []string { return NewRegistry().IDs() }

func FetchForProvider(ctx context.Context, store authstore.Store, providerID string) core.ProviderResult {
	return NewRegistry().FetchForProvider(ctx, store, providerID)
}

func ListConfigured(store authstore.Store) []string {
	return NewRegistry().ListConfigured(store)
}

func FetchAll(ctx context.Context, store authstore.Store, providerIDs []string) []core.ProviderResult {
	return NewRegistry().FetchAll(ctx, store, providerIDs)
}

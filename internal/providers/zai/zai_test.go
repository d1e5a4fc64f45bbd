package zai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nelsonPires5/openchamber/internal/authstore"
)

func TestFetch_PercentagePassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"limits": [
			{"type": "TOKENS_LIMIT", "percentage": 64, "currentValue": 1, "usage": 1000}
		]}}`)
	}))
	defer srv.Close()

	f := New()
	f.BaseURL = srv.URL
	store := authstore.Store{"zai": json.RawMessage(`"zai-key"`)}

	res := f.Fetch(context.Background(), store)
	if !res.OK {
		t.Fatalf("result = %+v", res)
	}
	tokens := res.Usage.Windows["tokens"]
	// Upstream percentage wins over the ratio.
	if tokens.UsedPercent == nil || *tokens.UsedPercent != 64 {
		t.Fatalf("usedPercent = %v", tokens.UsedPercent)
	}
}

func TestFetch_FractionScaled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"limits": [{"type": "TOKENS_LIMIT", "percentage": 0.25}]}}`)
	}))
	defer srv.Close()

	f := New()
	f.BaseURL = srv.URL
	store := authstore.Store{"zhipuai": json.RawMessage(`"zai-key"`)}

	res := f.Fetch(context.Background(), store)
	tokens := res.Usage.Windows["tokens"]
	if tokens.UsedPercent == nil || *tokens.UsedPercent != 25 {
		t.Fatalf("usedPercent = %v", tokens.UsedPercent)
	}
}

func TestFetch_RatioFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"limits": [
			{"type": "TIME_LIMIT", "percentage": 99},
			{"type": "TOKENS_LIMIT", "currentValue": 300, "usage": 1000, "nextResetTime": 1790000000}
		]}}`)
	}))
	defer srv.Close()

	f := New()
	f.BaseURL = srv.URL
	store := authstore.Store{"zai": json.RawMessage(`"zai-key"`)}

	res := f.Fetch(context.Background(), store)
	tokens := res.Usage.Windows["tokens"]
	if tokens.UsedPercent == nil || *tokens.UsedPercent != 30 {
		t.Fatalf("usedPercent = %v", tokens.UsedPercent)
	}
	if tokens.ResetAt == nil {
		t.Fatal("resetAt not parsed from nextResetTime")
	}
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := New()
	f.BaseURL = srv.URL
	store := authstore.Store{"zai": json.RawMessage(`"zai-key"`)}

	res := f.Fetch(context.Background(), store)
	if res.OK || res.Error != "API error: 429" {
		t.Fatalf("result = %+v", res)
	}
}

func TestFetch_NotConfigured(t *testing.T) {
	res := New().Fetch(context.Background(), authstore.Store{})
	if res.OK || res.Configured {
		t.Fatalf("result = %+v", res)
	}
}

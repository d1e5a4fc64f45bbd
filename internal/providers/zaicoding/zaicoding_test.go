package zaicoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nelsonPires5/openchamber/internal/authstore"
)

func TestFetch_MultiWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"limits": [
			{"window": {"duration": 1, "unit": "hour"}, "detail": {"limit": 200, "remaining": 150}},
			{"window": {"duration": 5, "unit": "hour"}, "detail": {"limit": 1000, "remaining": 400, "resetTime": 1790000000}},
			{"window": {"duration": 7, "unit": "day"},  "detail": {"limit": 5000, "remaining": 5000}}
		]}}`)
	}))
	defer srv.Close()

	f := New()
	f.BaseURL = srv.URL
	store := authstore.Store{"zai-coding-plan": json.RawMessage(`"zai-key"`)}

	res := f.Fetch(context.Background(), store)
	if !res.OK {
		t.Fatalf("result = %+v", res)
	}

	hour, ok := res.Usage.Windows["1h"]
	if !ok || hour.UsedPercent == nil || *hour.UsedPercent != 25 {
		t.Fatalf("1h window = %+v", hour)
	}

	// The exact 5-hour window is renamed.
	rateLimit, ok := res.Usage.Windows["Rate Limit (5h)"]
	if !ok {
		t.Fatalf("windows = %v", res.Usage.Windows)
	}
	if rateLimit.UsedPercent == nil || *rateLimit.UsedPercent != 60 {
		t.Fatalf("usedPercent = %v", rateLimit.UsedPercent)
	}
	if rateLimit.WindowSeconds == nil || *rateLimit.WindowSeconds != 5*3600 {
		t.Fatalf("windowSeconds = %v", rateLimit.WindowSeconds)
	}

	week, ok := res.Usage.Windows["7d"]
	if !ok || week.UsedPercent == nil || *week.UsedPercent != 0 {
		t.Fatalf("7d window = %+v", week)
	}
}

func TestFetch_SkipsMalformedEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"limits": [
			{"window": {"duration": "x", "unit": "hour"}},
			{"window": {"duration": 3, "unit": "fortnight"}},
			{"window": {"duration": 30, "unit": "minutes"}, "detail": {"limit": 10, "remaining": 5}}
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
	if len(res.Usage.Windows) != 1 {
		t.Fatalf("windows = %v", res.Usage.Windows)
	}
	if _, ok := res.Usage.Windows["30m"]; !ok {
		t.Fatalf("windows = %v, want 30m", res.Usage.Windows)
	}
}

func TestFetch_SharedZaiSecret(t *testing.T) {
	// The base-product secret configures the coding plan too.
	f := New()
	store := authstore.Store{"zhipuai": json.RawMessage(`"shared-secret"`)}
	if !f.Configured(store) {
		t.Fatal("shared zai secret should configure the coding plan")
	}
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := New()
	f.BaseURL = srv.URL
	store := authstore.Store{"zai": json.RawMessage(`"zai-key"`)}

	res := f.Fetch(context.Background(), store)
	if res.OK || res.Error != "API error: 502" {
		t.Fatalf("result = %+v", res)
	}
}

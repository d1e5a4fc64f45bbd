package kimi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nelsonPires5/openchamber/internal/authstore"
)

func TestFetch_PlanQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"total": 400, "remaining": 100, "reset_time": "2026-09-01 00:00:00"}}`)
	}))
	defer srv.Close()

	f := New()
	f.BaseURL = srv.URL
	store := authstore.Store{"moonshot": json.RawMessage(`"sk-kimi"`)}

	res := f.Fetch(context.Background(), store)
	if !res.OK {
		t.Fatalf("result = %+v", res)
	}

	plan := res.Usage.Windows["plan"]
	if plan.UsedPercent == nil || *plan.UsedPercent != 75 {
		t.Fatalf("usedPercent = %v", plan.UsedPercent)
	}
	if plan.ValueLabel != "100 / 400 left" {
		t.Fatalf("valueLabel = %q", plan.ValueLabel)
	}
	if plan.ResetAt == nil {
		t.Fatal("resetAt not parsed")
	}
}

func TestFetch_AliasOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer from-moonshot" {
			t.Errorf("Authorization = %q", got)
		}
		fmt.Fprint(w, `{"data": {}}`)
	}))
	defer srv.Close()

	f := New()
	f.BaseURL = srv.URL
	store := authstore.Store{
		"moonshot": json.RawMessage(`"from-moonshot"`),
		"kimi":     json.RawMessage(`"from-kimi"`),
	}

	res := f.Fetch(context.Background(), store)
	if !res.OK {
		t.Fatalf("result = %+v", res)
	}
	// A payload without totals still yields a window, just without numbers.
	plan := res.Usage.Windows["plan"]
	if plan.UsedPercent != nil || plan.ValueLabel != "" {
		t.Fatalf("plan = %+v", plan)
	}
}

func TestFetch_NotConfigured(t *testing.T) {
	res := New().Fetch(context.Background(), authstore.Store{})
	if res.OK || res.Configured || res.Error != "Not configured" {
		t.Fatalf("result = %+v", res)
	}
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New()
	f.BaseURL = srv.URL
	store := authstore.Store{"kimi-for-coding": json.RawMessage(`"tok"`)}

	res := f.Fetch(context.Background(), store)
	if res.OK || res.Error != "API error: 500" {
		t.Fatalf("result = %+v", res)
	}
}

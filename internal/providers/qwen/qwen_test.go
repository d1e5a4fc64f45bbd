package qwen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nelsonPires5/openchamber/internal/authstore"
)

func TestFetch_Tiers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [
			{"type": "daily",   "used": 30, "quota": 120, "reset_time": 1790000000},
			{"type": "monthly", "used": 5,  "quota": 0}
		]}`)
	}))
	defer srv.Close()

	f := New()
	f.BaseURL = srv.URL
	store := authstore.Store{"dashscope": json.RawMessage(`"qw-key"`)}

	res := f.Fetch(context.Background(), store)
	if !res.OK {
		t.Fatalf("result = %+v", res)
	}

	daily := res.Usage.Windows["daily"]
	if daily.UsedPercent == nil || *daily.UsedPercent != 25 {
		t.Fatalf("daily = %+v", daily)
	}
	if daily.ValueLabel != "30 / 120" {
		t.Fatalf("label = %q", daily.ValueLabel)
	}

	// Zero quota never divides; the tier still shows up without numbers.
	monthly := res.Usage.Windows["monthly"]
	if monthly.UsedPercent != nil {
		t.Fatalf("monthly = %+v", monthly)
	}
}

func TestFetch_NotConfigured(t *testing.T) {
	res := New().Fetch(context.Background(), authstore.Store{})
	if res.OK || res.Configured || res.Error != "Not configured" {
		t.Fatalf("result = %+v", res)
	}
}

func TestFetch_TransportFailure(t *testing.T) {
	f := New()
	f.BaseURL = "http://127.0.0.1:1"
	store := authstore.Store{"qwen": json.RawMessage(`"qw-key"`)}

	res := f.Fetch(context.Background(), store)
	if res.OK || res.Error != "Request failed" {
		t.Fatalf("result = %+v", res)
	}
}

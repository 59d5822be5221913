// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c, err := New(srv.URL, "key", WithFlushInterval(time.Hour))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, func() {
		_ = c.Close(context.Background())
		srv.Close()
	}
}

func TestClientQueryEncodesParams(t *testing.T) {
	var gotPath, gotQuery string
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(QueryResult{Total: 1, Limit: 10, Offset: 0})
	})
	defer cleanup()

	res, err := c.Query(context.Background(), QueryOptions{Service: "svc", Q: "boom", Limit: 10}.WithLevel(Error))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if gotPath != "/api/v1/logs" {
		t.Fatalf("expected path /api/v1/logs, got %q", gotPath)
	}
	if !strings.Contains(gotQuery, "service=svc") || !strings.Contains(gotQuery, "level=error") || !strings.Contains(gotQuery, "q=boom") || !strings.Contains(gotQuery, "limit=10") {
		t.Fatalf("expected query to carry all set fields, got %q", gotQuery)
	}
	if res.Total != 1 {
		t.Fatalf("expected decoded total=1, got %d", res.Total)
	}
}

func TestClientGetByTraceIDPathEncodesID(t *testing.T) {
	var gotPath string
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(logsEnvelope{Logs: []LogRecord{newRecord("svc", Info, "hi", nil)}})
	})
	defer cleanup()

	recs, err := c.GetByTraceID(context.Background(), "abc/def")
	if err != nil {
		t.Fatalf("GetByTraceID: %v", err)
	}
	if gotPath != "/api/v1/logs/trace/abc%2Fdef" {
		t.Fatalf("expected path-escaped trace id, got %q", gotPath)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
}

func TestClientAggregatedStats(t *testing.T) {
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/logs/aggregated" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AggregatedStatsResult{
			Timeseries:  []TimeseriesBucket{{Bucket: "2026-01-01T00:00:00Z", Total: 3, ByLevel: map[string]int{"info": 3}}},
			TopServices: []ServiceCount{{Service: "svc", Count: 3}},
			TopErrors:   []MessageCount{},
		})
	})
	defer cleanup()

	res, err := c.AggregatedStats(context.Background(), AggregatedStatsOptions{Interval: "hour"})
	if err != nil {
		t.Fatalf("AggregatedStats: %v", err)
	}
	if len(res.Timeseries) != 1 || res.Timeseries[0].Total != 3 {
		t.Fatalf("unexpected timeseries: %+v", res.Timeseries)
	}
}

func TestClientQuerySurfacesAPIError(t *testing.T) {
	c, cleanup := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	})
	defer cleanup()

	_, err := c.Query(context.Background(), QueryOptions{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrAPINotFound) {
		t.Fatalf("expected errors.Is(err, ErrAPINotFound), got %v", err)
	}
}

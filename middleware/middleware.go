// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

// Package middleware adapts a logship.Client into a net/http inbound
// request handler wrapper. It is a thin collaborator: every guarantee
// (buffering, retry, breaker, metrics) comes from the wrapped Client, not
// from this package.
package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/develeap/logship"
	"github.com/google/uuid"
)

// DefaultTraceHeader is the header name read for an inbound trace id when
// none is configured.
const DefaultTraceHeader = "X-Trace-Id"

// Config configures Wrap.
type Config struct {
	// Client is required; every log emitted by the middleware goes through
	// it.
	Client *logship.Client
	// Service names the logical service in emitted records.
	Service string
	// SkipPaths lists request paths (exact match) the middleware passes
	// through without logging, e.g. health checks.
	SkipPaths []string
	// TraceHeader overrides DefaultTraceHeader.
	TraceHeader string
}

// Wrap returns an http.Handler that logs one Info record when a request
// starts, one completion record leveled by response status (Info below
// 400, Warn 400-499, Error otherwise), and one Error record plus a re-panic
// if the wrapped handler panics. The trace id is read from the configured
// header or generated, and installed on Client's trace context for the
// duration of the request via the scoped override.
func Wrap(cfg Config, next http.Handler) http.Handler {
	traceHeader := cfg.TraceHeader
	if traceHeader == "" {
		traceHeader = DefaultTraceHeader
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := skip[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		traceID := r.Header.Get(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		cfg.Client.TraceContext().WithTraceID(traceID, func() {
			serveOne(cfg, w, r, next)
		})
	})
}

func serveOne(cfg Config, w http.ResponseWriter, r *http.Request, next http.Handler) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	_ = cfg.Client.Info(cfg.Service, "request started", map[string]interface{}{
		"method": r.Method,
		"path":   r.URL.Path,
		"query":  r.URL.RawQuery,
	})

	defer func() {
		if p := recover(); p != nil {
			var err error
			if e, ok := p.(error); ok {
				err = e
			} else {
				err = errors.New("panic in handler")
			}
			_ = cfg.Client.ErrorWithErr(cfg.Service, "request panicked", err)
			panic(p)
		}
	}()

	next.ServeHTTP(rec, r)

	duration := time.Since(start)
	fields := map[string]interface{}{
		"method":      r.Method,
		"path":        r.URL.Path,
		"query":       r.URL.RawQuery,
		"status":      rec.status,
		"duration_ms": duration.Milliseconds(),
	}

	switch {
	case rec.status >= 500:
		_ = cfg.Client.ErrorLog(cfg.Service, "request completed", fields)
	case rec.status >= 400:
		_ = cfg.Client.Warn(cfg.Service, "request completed", fields)
	default:
		_ = cfg.Client.Info(cfg.Service, "request completed", fields)
	}
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

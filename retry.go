// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// ingestPayload is the wire shape POSTed to {base}/api/v1/ingest.
type ingestPayload struct {
	Logs []LogRecord `json:"logs"`
}

// retryEngine sends one snapshot of records with exponential-backoff retry,
// consulting the breaker before every attempt. It never surfaces send
// failures to the producer; all non-delivery is visible only through
// metrics.
type retryEngine struct {
	httpClient    *http.Client
	endpoint      string
	breaker       *Breaker
	metrics       *Metrics
	enableMetrics bool
	logger        Logger
	maxRetries    int
	retryDelay    time.Duration
}

func newRetryEngine(cfg *ClientConfig, httpClient *http.Client, breaker *Breaker, metrics *Metrics, logger Logger) *retryEngine {
	return &retryEngine{
		httpClient:    httpClient,
		endpoint:      cfg.Endpoint + "/api/v1/ingest",
		breaker:       breaker,
		metrics:       metrics,
		enableMetrics: cfg.EnableMetrics,
		logger:        logger,
		maxRetries:    cfg.MaxRetries,
		retryDelay:    cfg.RetryDelay,
	}
}

func (e *retryEngine) incLogsSent(n uint64) {
	if e.enableMetrics {
		e.metrics.IncLogsSent(n)
	}
}

func (e *retryEngine) incLogsDropped(n uint64) {
	if e.enableMetrics {
		e.metrics.IncLogsDropped(n)
	}
}

func (e *retryEngine) incErrors() {
	if e.enableMetrics {
		e.metrics.IncErrors()
	}
}

func (e *retryEngine) incRetries() {
	if e.enableMetrics {
		e.metrics.IncRetries()
	}
}

func (e *retryEngine) incBreakerTrips() {
	if e.enableMetrics {
		e.metrics.IncBreakerTrips()
	}
}

func (e *retryEngine) recordLatency(ms float64) {
	if e.enableMetrics {
		e.metrics.RecordLatency(ms)
	}
}

// send attempts to deliver the batch, retrying with exponential backoff up
// to maxRetries times, consulting the breaker before every attempt.
func (e *retryEngine) send(ctx context.Context, batch []LogRecord) {
	if len(batch) == 0 {
		return
	}

	body, err := json.Marshal(ingestPayload{Logs: batch})
	if err != nil {
		// Unreachable in practice (LogRecord is plain JSON-able data), but
		// if it ever happened the batch can't be sent at all.
		e.incLogsDropped(uint64(len(batch)))
		return
	}

	delay := e.retryDelay
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		done, ok := e.breaker.reserve()
		if !ok {
			e.incLogsDropped(uint64(len(batch)))
			e.incBreakerTrips()
			e.debugf(ctx, "breaker open, abandoning batch", map[string]interface{}{
				"batch_size": len(batch),
			})
			return
		}

		start := time.Now()
		sent, retryable := e.attempt(ctx, body)
		latency := time.Since(start)
		done(sent)

		if sent {
			e.recordLatency(float64(latency) / float64(time.Millisecond))
			e.incLogsSent(uint64(len(batch)))
			return
		}

		e.incErrors()

		if attempt < e.maxRetries && retryable {
			e.incRetries()
			e.debugf(ctx, "retrying batch send", map[string]interface{}{
				"attempt": attempt + 1,
				"delay_ms": delay.Milliseconds(),
			})
			e.sleep(ctx, delay)
			delay *= 2
			continue
		}

		e.incLogsDropped(uint64(len(batch)))
		if e.breaker.State() == BreakerOpen {
			e.incBreakerTrips()
		}
		return
	}
}

// attempt performs one HTTP POST. ok is true on any 2xx response.
// retryable is true unless the context was canceled, since a canceled
// context will only fail again.
func (e *retryEngine) attempt(ctx context.Context, body []byte) (ok, retryable bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return false, ctx.Err() == nil
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300, true
}

func (e *retryEngine) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (e *retryEngine) debugf(ctx context.Context, msg string, fields map[string]interface{}) {
	if e.logger != nil {
		e.logger.Debug(ctx, msg, fields)
	}
}

// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

// Package logship is a client-side log-shipping SDK: it buffers structured
// log records and forwards them in batches to a remote ingestion HTTP
// endpoint, with a circuit breaker, exponential-backoff retries, and
// best-effort (not guaranteed, not ordered-across-batches) delivery.
package logship

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Client is the log-shipping facade: enrichment, buffering, lifecycle, and
// query pass-through.
type Client struct {
	cfg *ClientConfig

	httpClient *http.Client
	buf        *buffer
	breaker    *Breaker
	metrics    *Metrics
	trace      *TraceContext
	dispatcher *dispatcher
	logger     Logger

	disposed atomic.Bool
	closeMu  sync.Mutex
}

// New constructs a Client, validates the configuration, wires the HTTP
// client/breaker/dispatcher, and starts the periodic flush task. Fatal
// configuration errors (missing endpoint or API key) are reported as
// ErrConfigInvalid rather than causing a panic.
func New(endpoint, apiKey string, opts ...Option) (*Client, error) {
	cfg, err := newConfig(endpoint, apiKey, opts...)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		if cfg.Debug {
			logger = NewHCLogLogger()
		} else {
			logger = noopLogger{}
		}
	}

	metrics := cfg.metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	httpClient := newHTTPClient(cfg)
	breaker := NewBreaker(cfg.BreakerThreshold, cfg.BreakerReset, logger)
	buf := newBuffer(cfg.MaxBufferSize)
	engine := newRetryEngine(cfg, httpClient, breaker, metrics, logger)
	disp := newDispatcher(buf, engine, logger)

	c := &Client{
		cfg:        cfg,
		httpClient: httpClient,
		buf:        buf,
		breaker:    breaker,
		metrics:    metrics,
		trace:      NewTraceContext(),
		dispatcher: disp,
		logger:     logger,
	}

	if err := disp.start(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Metrics returns a point-in-time snapshot of the client's counters.
func (c *Client) Metrics() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// TraceContext exposes the client's shared trace context for scoped
// overrides. See TraceContext's doc comment for the concurrency caveat:
// this field is shared across every caller using this Client.
func (c *Client) TraceContext() *TraceContext {
	return c.trace
}

// Log enriches and buffers rec. It fails synchronously with ErrBufferFull
// when the buffer is at capacity (the record is never stored in that case)
// and with ErrClosed once Close has been called. It never blocks on network
// I/O.
func (c *Client) Log(rec LogRecord) error {
	if c.disposed.Load() {
		return ErrClosed
	}

	c.enrich(&rec)

	res := c.buf.append(rec, c.cfg.BatchSize)
	if !res.ok {
		if c.cfg.EnableMetrics {
			c.metrics.IncLogsDropped(1)
		}
		return ErrBufferFull
	}
	if res.thresholdCrossed {
		c.dispatcher.triggerAsync(context.Background())
	}
	return nil
}

// enrich fills in trace id (from the scoped trace context, or a fresh UUID
// when auto-trace-id generation is enabled and neither is present), stamps
// the current UTC time when the record has no timestamp, and merges global
// metadata into keys the caller didn't already supply.
func (c *Client) enrich(rec *LogRecord) {
	if rec.Timestamp == "" {
		rec.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if rec.TraceID == "" {
		if id, ok := c.trace.Get(); ok {
			rec.TraceID = id
		} else if c.cfg.AutoTraceID {
			rec.TraceID = c.trace.WithNewTraceID(func() {})
		}
	}

	if rec.Metadata == nil {
		rec.Metadata = map[string]interface{}{}
	}
	for k, v := range c.cfg.GlobalMetadata {
		if _, exists := rec.Metadata[k]; !exists {
			rec.Metadata[k] = v
		}
	}
}

// Debug logs a Debug-level record.
func (c *Client) Debug(service, message string, metadata map[string]interface{}) error {
	return c.Log(newRecord(service, Debug, message, metadata))
}

// Info logs an Info-level record.
func (c *Client) Info(service, message string, metadata map[string]interface{}) error {
	return c.Log(newRecord(service, Info, message, metadata))
}

// Warn logs a Warn-level record.
func (c *Client) Warn(service, message string, metadata map[string]interface{}) error {
	return c.Log(newRecord(service, Warn, message, metadata))
}

// ErrorLog logs an Error-level record with plain metadata.
func (c *Client) ErrorLog(service, message string, metadata map[string]interface{}) error {
	return c.Log(newRecord(service, Error, message, metadata))
}

// ErrorWithErr logs an Error-level record whose metadata is the serialized
// form of errVal under the "error" key.
func (c *Client) ErrorWithErr(service, message string, errVal error) error {
	return c.Log(newRecord(service, Error, message, errorMetadata(errVal)))
}

// CriticalLog logs a Critical-level record with plain metadata.
func (c *Client) CriticalLog(service, message string, metadata map[string]interface{}) error {
	return c.Log(newRecord(service, Critical, message, metadata))
}

// CriticalWithErr logs a Critical-level record whose metadata is the
// serialized form of errVal under the "error" key.
func (c *Client) CriticalWithErr(service, message string, errVal error) error {
	return c.Log(newRecord(service, Critical, message, errorMetadata(errVal)))
}

// Flush synchronously drains the buffer once via the same snapshot-and-send
// path background flushes use. If ctx is canceled before the send
// completes, Flush returns ErrCancellationRequested; the in-flight HTTP
// request is aborted, but already-cleared buffer contents are not restored.
func (c *Client) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.dispatcher.flushNow(ctx)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ErrCancellationRequested
	}
}

// Close marks the client disposed (subsequent Log calls become no-ops that
// return ErrClosed), stops the periodic flush task, performs one final
// synchronous flush, and releases the HTTP client's connections. Idempotent.
func (c *Client) Close(ctx context.Context) error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.disposed.Swap(true) {
		return nil
	}

	c.dispatcher.stop()
	err := c.Flush(ctx)
	c.httpClient.CloseIdleConnections()
	return err
}

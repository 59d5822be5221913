// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import (
	"fmt"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultBatchSize        = 100
	DefaultFlushInterval    = 5000 * time.Millisecond
	DefaultMaxBufferSize    = 10000
	DefaultMaxRetries       = 3
	DefaultRetryDelay       = 1000 * time.Millisecond
	DefaultBreakerThreshold = 5
	DefaultBreakerReset     = 30000 * time.Millisecond
	DefaultHTTPTimeout      = 30 * time.Second
)

// ClientConfig configures a Client. It is immutable once passed to New: the
// options below only ever mutate the config struct being built, never a
// live Client.
type ClientConfig struct {
	Endpoint string
	APIKey   string

	BatchSize        int
	FlushInterval    time.Duration
	MaxBufferSize    int
	MaxRetries       int
	RetryDelay       time.Duration
	BreakerThreshold int
	BreakerReset     time.Duration
	EnableMetrics    bool
	Debug            bool
	GlobalMetadata   map[string]interface{}
	AutoTraceID      bool
	HTTPTimeout      time.Duration

	logger  Logger
	metrics *Metrics
}

// Option configures a ClientConfig. This is the only configuration surface
// — there is no environment variable or config file parsing.
type Option func(*ClientConfig)

// WithBatchSize overrides the size threshold that triggers an immediate
// flush.
func WithBatchSize(n int) Option {
	return func(c *ClientConfig) { c.BatchSize = n }
}

// WithFlushInterval overrides the periodic flush interval.
func WithFlushInterval(d time.Duration) Option {
	return func(c *ClientConfig) { c.FlushInterval = d }
}

// WithMaxBufferSize overrides the hard buffer capacity.
func WithMaxBufferSize(n int) Option {
	return func(c *ClientConfig) { c.MaxBufferSize = n }
}

// WithMaxRetries overrides the number of retry attempts per flush.
func WithMaxRetries(n int) Option {
	return func(c *ClientConfig) { c.MaxRetries = n }
}

// WithRetryDelay overrides the initial retry backoff delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *ClientConfig) { c.RetryDelay = d }
}

// WithBreaker overrides the circuit breaker's failure threshold and reset
// timeout.
func WithBreaker(threshold int, reset time.Duration) Option {
	return func(c *ClientConfig) {
		c.BreakerThreshold = threshold
		c.BreakerReset = reset
	}
}

// WithMetricsEnabled toggles metrics accumulation. When disabled, counters
// and the latency window are never updated, so Metrics() always reports a
// zero-valued snapshot.
func WithMetricsEnabled(enabled bool) Option {
	return func(c *ClientConfig) { c.EnableMetrics = enabled }
}

// WithDebug toggles internal debug logging.
func WithDebug(enabled bool) Option {
	return func(c *ClientConfig) { c.Debug = enabled }
}

// WithGlobalMetadata sets metadata merged into every record whose caller-
// supplied metadata doesn't already have that key.
func WithGlobalMetadata(md map[string]interface{}) Option {
	return func(c *ClientConfig) { c.GlobalMetadata = md }
}

// WithAutoTraceID enables generating a fresh trace id for records that have
// none and no current scoped trace id either.
func WithAutoTraceID(enabled bool) Option {
	return func(c *ClientConfig) { c.AutoTraceID = enabled }
}

// WithHTTPTimeout overrides the per-request HTTP timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *ClientConfig) { c.HTTPTimeout = d }
}

// WithLogger sets the Logger used for internal debug logging, overriding
// the default (a go-hclog-backed Logger when Debug is enabled, otherwise
// one that discards everything).
func WithLogger(l Logger) Option {
	return func(c *ClientConfig) { c.logger = l }
}

// newConfig builds a ClientConfig from endpoint, apiKey, and opts, applying
// defaults first and then running opts over them.
func newConfig(endpoint, apiKey string, opts ...Option) (*ClientConfig, error) {
	c := &ClientConfig{
		Endpoint:         strings.TrimRight(endpoint, "/"),
		APIKey:           apiKey,
		BatchSize:        DefaultBatchSize,
		FlushInterval:    DefaultFlushInterval,
		MaxBufferSize:    DefaultMaxBufferSize,
		MaxRetries:       DefaultMaxRetries,
		RetryDelay:       DefaultRetryDelay,
		BreakerThreshold: DefaultBreakerThreshold,
		BreakerReset:     DefaultBreakerReset,
		EnableMetrics:    true,
		GlobalMetadata:   map[string]interface{}{},
		HTTPTimeout:      DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ClientConfig) validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("%w: endpoint is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: api key is required", ErrConfigInvalid)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be >= 1", ErrConfigInvalid)
	}
	if c.FlushInterval < 1 {
		return fmt.Errorf("%w: flush_interval_ms must be >= 1", ErrConfigInvalid)
	}
	if c.MaxBufferSize < 1 {
		return fmt.Errorf("%w: max_buffer_size must be >= 1", ErrConfigInvalid)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must be >= 0", ErrConfigInvalid)
	}
	if c.RetryDelay < 1 {
		return fmt.Errorf("%w: retry_delay_ms must be >= 1", ErrConfigInvalid)
	}
	if c.BreakerThreshold < 1 {
		return fmt.Errorf("%w: breaker_threshold must be >= 1", ErrConfigInvalid)
	}
	return nil
}

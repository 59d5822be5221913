// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// QueryOptions filters the /api/v1/logs read operation. Zero values are
// omitted from the request.
type QueryOptions struct {
	Service string
	Level   Level
	From    string
	To      string
	Q       string
	Limit   int
	Offset  int

	hasLevel bool
}

// WithLevel marks Level as set, distinguishing "filter on Debug" (the zero
// Level value) from "no level filter".
func (o QueryOptions) WithLevel(l Level) QueryOptions {
	o.Level = l
	o.hasLevel = true
	return o
}

// QueryResult is the response envelope for Query.
type QueryResult struct {
	Logs   []LogRecord `json:"logs"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// logsEnvelope is the payload shape GetByTraceID's endpoint returns: the
// same {"logs": [...]} envelope used elsewhere.
type logsEnvelope struct {
	Logs []LogRecord `json:"logs"`
}

// AggregatedStatsOptions filters the /api/v1/logs/aggregated read operation.
type AggregatedStatsOptions struct {
	From     string
	To       string
	Interval string
	Service  string
}

// TimeseriesBucket is one bucket of AggregatedStatsResult.Timeseries.
type TimeseriesBucket struct {
	Bucket  string         `json:"bucket"`
	Total   int            `json:"total"`
	ByLevel map[string]int `json:"by_level"`
}

// ServiceCount pairs a service name with an occurrence count.
type ServiceCount struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

// MessageCount pairs an error message with an occurrence count.
type MessageCount struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// AggregatedStatsResult is the response envelope for AggregatedStats.
type AggregatedStatsResult struct {
	Timeseries  []TimeseriesBucket `json:"timeseries"`
	TopServices []ServiceCount     `json:"top_services"`
	TopErrors   []MessageCount     `json:"top_errors"`
}

// Query issues GET /api/v1/logs with opts URL-encoded as query parameters,
// omitting any field left at its zero value.
func (c *Client) Query(ctx context.Context, opts QueryOptions) (QueryResult, error) {
	if c.disposed.Load() {
		return QueryResult{}, ErrClosed
	}

	q := url.Values{}
	if opts.Service != "" {
		q.Set("service", opts.Service)
	}
	if opts.hasLevel {
		q.Set("level", opts.Level.String())
	}
	if opts.From != "" {
		q.Set("from", opts.From)
	}
	if opts.To != "" {
		q.Set("to", opts.To)
	}
	if opts.Q != "" {
		q.Set("q", opts.Q)
	}
	if opts.Limit != 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset != 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}

	var result QueryResult
	if err := c.doGet(ctx, "/api/v1/logs?"+q.Encode(), &result); err != nil {
		return QueryResult{}, err
	}
	return result, nil
}

// GetByTraceID issues GET /api/v1/logs/trace/{id}, with id path-encoded.
func (c *Client) GetByTraceID(ctx context.Context, id string) ([]LogRecord, error) {
	if c.disposed.Load() {
		return nil, ErrClosed
	}

	var env logsEnvelope
	path := "/api/v1/logs/trace/" + url.PathEscape(id)
	if err := c.doGet(ctx, path, &env); err != nil {
		return nil, err
	}
	return env.Logs, nil
}

// AggregatedStats issues GET /api/v1/logs/aggregated with opts URL-encoded
// as query parameters.
func (c *Client) AggregatedStats(ctx context.Context, opts AggregatedStatsOptions) (AggregatedStatsResult, error) {
	if c.disposed.Load() {
		return AggregatedStatsResult{}, ErrClosed
	}

	q := url.Values{}
	if opts.From != "" {
		q.Set("from", opts.From)
	}
	if opts.To != "" {
		q.Set("to", opts.To)
	}
	if opts.Interval != "" {
		q.Set("interval", opts.Interval)
	}
	if opts.Service != "" {
		q.Set("service", opts.Service)
	}

	var result AggregatedStatsResult
	if err := c.doGet(ctx, "/api/v1/logs/aggregated?"+q.Encode(), &result); err != nil {
		return AggregatedStatsResult{}, err
	}
	return result, nil
}

// doGet performs a GET against path relative to the configured endpoint and
// decodes a 2xx JSON body into out. Non-2xx responses and bodies that fail
// to decode surface as *ApiError; a canceled context surfaces as
// ErrCancellationRequested.
func (c *Client) doGet(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("logship: building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ErrCancellationRequested
		}
		return fmt.Errorf("logship: query request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("logship: reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewAPIError(resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return NewAPIError(resp.StatusCode, string(body))
	}
	return nil
}

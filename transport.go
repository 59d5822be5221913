// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import "net/http"

// apiKeyTransport injects the X-API-Key header into every outbound request.
// Header injection belongs at the RoundTripper layer, not built per-request
// by hand at every call site.
type apiKeyTransport struct {
	apiKey string
	next   http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("X-API-Key", t.apiKey)
	return t.next.RoundTrip(clone)
}

// newHTTPClient builds the shared *http.Client used for every outbound
// call: ingest, query, get-by-trace-id, aggregated-stats.
func newHTTPClient(cfg *ClientConfig) *http.Client {
	base := http.DefaultTransport
	return &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: &apiKeyTransport{apiKey: cfg.APIKey, next: base},
	}
}

// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import (
	"sync"

	"github.com/google/uuid"
)

// TraceContext holds a single optional current trace identifier, scoped to
// one Client's lifetime. It is shared by every caller using that client;
// concurrent callers therefore observe each other's scoped overrides. It is
// not a per-request context, and the middleware package installs its
// per-request trace id through this same shared field, so concurrent
// requests on one Client can see each other's trace ids.
type TraceContext struct {
	mu      sync.Mutex
	current *string
}

// NewTraceContext builds an empty TraceContext.
func NewTraceContext() *TraceContext {
	return &TraceContext{}
}

// Get returns the current trace id, or ("", false) if unset.
func (t *TraceContext) Get() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return "", false
	}
	return *t.current, true
}

// Set overwrites the current trace id.
func (t *TraceContext) Set(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := id
	t.current = &v
}

// Clear unsets the current trace id.
func (t *TraceContext) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current = nil
}

// WithTraceID sets the trace id to id, invokes fn, and restores the prior
// value on every exit path — including fn panicking — using defer (I10).
func (t *TraceContext) WithTraceID(id string, fn func()) {
	t.mu.Lock()
	prev := t.current
	t.mu.Unlock()

	t.Set(id)
	defer func() {
		t.mu.Lock()
		t.current = prev
		t.mu.Unlock()
	}()
	fn()
}

// WithNewTraceID generates a fresh UUIDv4 trace id, scopes it for the
// duration of fn via WithTraceID, and returns the generated id.
func (t *TraceContext) WithNewTraceID(fn func()) string {
	id := uuid.NewString()
	t.WithTraceID(id, fn)
	return id
}

// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerState is the observable state of a Breaker.
type BreakerState int

// Breaker states.
const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker is a failure-counting state machine guarding outbound requests.
// It wraps a gobreaker.TwoStepCircuitBreaker.
//
// Concurrent callers (e.g. overlapping flushes) must use reserve: it hands
// back the exact "done" closure Allow() produced for that call, so the
// completion is always paired with the permit that was actually reserved,
// no matter how many goroutines are attempting calls at once.
//
// CanAttempt/RecordSuccess/RecordFailure are a convenience pair for callers
// that issue one attempt at a time on a single goroutine (direct,
// synchronous use and tests); they round-trip through a FIFO of pending
// permits so RecordSuccess/RecordFailure can be called without holding onto
// a closure. That round-trip is not safe under concurrent attempts: a
// goroutine's completion call can pop a different goroutine's permit off
// the queue. Don't use this pair from more than one goroutine at a time.
type Breaker struct {
	mu      sync.Mutex
	cb      *gobreaker.TwoStepCircuitBreaker
	pending []func(bool)
	logger  Logger
}

// NewBreaker builds a Breaker that opens after threshold consecutive
// failures and attempts recovery (HalfOpen) reset after elapsing.
func NewBreaker(threshold int, reset time.Duration, logger Logger) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	b := &Breaker{logger: logger}
	b.cb = gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
		Name:        "logship",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     reset,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold) //nolint:gosec // threshold is a small bounded config value
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if b.logger != nil {
				b.logger.Debug(context.Background(), "breaker state change", map[string]interface{}{
					"name": name,
					"from": from.String(),
					"to":   to.String(),
				})
			}
		},
	})
	return b
}

// reserve attempts to reserve a permit and, on success, returns the done
// closure that completes exactly that permit. The caller must invoke done
// exactly once with the outcome. Unlike CanAttempt/RecordSuccess/
// RecordFailure, reserve never shares state across calls, so it is safe to
// call from many goroutines at once: each caller completes only the permit
// it was itself handed.
func (b *Breaker) reserve() (done func(bool), ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	done, err := b.cb.Allow()
	if err != nil {
		return nil, false
	}
	return done, true
}

// CanAttempt reports whether a call may proceed right now. A true result
// reserves a permit on the FIFO queue; the caller should follow up with
// exactly one RecordSuccess or RecordFailure call.
func (b *Breaker) CanAttempt() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	done, err := b.cb.Allow()
	if err != nil {
		return false
	}
	b.pending = append(b.pending, done)
	return true
}

// RecordSuccess completes the oldest pending permit as a success (reserving
// one first if none is pending): failure count resets to zero and state
// becomes Closed. If no permit is pending and the breaker refuses a new one
// (Open, or HalfOpen with its trial slot taken), nothing is recorded and
// the state stays as it is.
func (b *Breaker) RecordSuccess() {
	b.completeOldestOrNew(true)
}

// RecordFailure completes the oldest pending permit as a failure (reserving
// one first if none is pending): failure count increments and, once the
// threshold is reached (or immediately from HalfOpen), state becomes Open.
// If no permit is pending and the breaker refuses a new one, nothing is
// recorded: the failure count and the reset timer are left unchanged.
func (b *Breaker) RecordFailure() {
	b.completeOldestOrNew(false)
}

func (b *Breaker) completeOldestOrNew(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var done func(bool)
	if len(b.pending) > 0 {
		done = b.pending[0]
		b.pending = b.pending[1:]
	} else {
		var err error
		done, err = b.cb.Allow()
		if err != nil {
			// Breaker is refusing new attempts (Open, or HalfOpen with no
			// slot free); there is nothing in flight left to record.
			return
		}
	}
	done(success)
}

// State reports the current breaker state, lazily transitioning Open to
// HalfOpen if the reset timeout has elapsed.
func (b *Breaker) State() BreakerState {
	switch b.cb.State() {
	case gobreaker.StateOpen:
		return BreakerOpen
	case gobreaker.StateHalfOpen:
		return BreakerHalfOpen
	default:
		return BreakerClosed
	}
}

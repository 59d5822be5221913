// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import (
	"testing"
	"time"
)

func TestBreakerTripsAtThreshold(t *testing.T) {
	b := NewBreaker(3, 1*time.Second, nil)

	b.RecordFailure()
	b.RecordFailure()
	if b.State() != BreakerClosed {
		t.Fatalf("expected closed before threshold, got %v", b.State())
	}
	b.RecordFailure()

	if b.State() != BreakerOpen {
		t.Fatalf("expected open at threshold, got %v", b.State())
	}
	if b.CanAttempt() {
		t.Fatal("expected can_attempt false when open")
	}
}

func TestBreakerRecoversToHalfOpenThenCloses(t *testing.T) {
	b := NewBreaker(1, 50*time.Millisecond, nil)

	b.RecordFailure()
	if b.State() != BreakerOpen {
		t.Fatalf("expected open after one failure at threshold 1, got %v", b.State())
	}

	time.Sleep(100 * time.Millisecond)

	if !b.CanAttempt() {
		t.Fatal("expected can_attempt true after reset window elapses")
	}
	if b.State() != BreakerHalfOpen {
		t.Fatalf("expected half-open after reset window, got %v", b.State())
	}

	b.RecordSuccess()
	if b.State() != BreakerClosed {
		t.Fatalf("expected closed after success from half-open, got %v", b.State())
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(1, 20*time.Millisecond, nil)

	b.RecordFailure()
	time.Sleep(40 * time.Millisecond)

	if b.State() != BreakerHalfOpen {
		t.Fatalf("expected half-open, got %v", b.State())
	}

	b.RecordFailure()
	if b.State() != BreakerOpen {
		t.Fatalf("expected open after half-open failure, got %v", b.State())
	}
}

func TestBreakerSuccessFromClosedResetsFailureStreak(t *testing.T) {
	b := NewBreaker(3, time.Second, nil)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()

	if b.State() != BreakerClosed {
		t.Fatalf("expected closed: success should have reset the consecutive-failure streak, got %v", b.State())
	}
}

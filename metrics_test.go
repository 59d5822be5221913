// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import "testing"

func TestMetricsSnapshotIsIndependent(t *testing.T) {
	m := NewMetrics()
	m.IncLogsSent(5)

	snap := m.Snapshot()
	m.IncLogsSent(10)

	if snap.LogsSent != 5 {
		t.Fatalf("snapshot mutated after live counter changed: got %d, want 5", snap.LogsSent)
	}
	if got := m.Snapshot().LogsSent; got != 15 {
		t.Fatalf("live counter: got %d, want 15", got)
	}
}

func TestMetricsLatencyWindowEviction(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < latencyWindowSize+10; i++ {
		m.RecordLatency(1.0)
	}
	// Window caps at 100 identical samples of 1.0ms -> average stays 1.0.
	if got := m.Snapshot().AvgLatencyMs; got != 1.0 {
		t.Fatalf("expected average 1.0 after eviction, got %v", got)
	}
}

func TestMetricsAverageLatency(t *testing.T) {
	m := NewMetrics()
	m.RecordLatency(10)
	m.RecordLatency(20)
	m.RecordLatency(30)

	if got := m.Snapshot().AvgLatencyMs; got != 20 {
		t.Fatalf("expected average 20, got %v", got)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.IncLogsSent(3)
	m.IncErrors()
	m.RecordLatency(5)

	m.Reset()

	snap := m.Snapshot()
	if snap.LogsSent != 0 || snap.Errors != 0 || snap.AvgLatencyMs != 0 {
		t.Fatalf("expected zeroed metrics after reset, got %+v", snap)
	}
}

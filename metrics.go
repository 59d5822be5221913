// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import "sync"

// latencyWindowSize bounds the rolling average window.
const latencyWindowSize = 100

// Metrics holds the accumulated, thread-safe counters for one client
// instance. Use Snapshot to obtain an independent copy; the live instance
// must never be handed to callers directly (I6).
type Metrics struct {
	mu sync.Mutex

	logsSent     uint64
	logsDropped  uint64
	errors       uint64
	retries      uint64
	breakerTrips uint64

	latencies    [latencyWindowSize]float64
	latencyCount int
	latencyNext  int
	latencySum   float64
}

// MetricsSnapshot is an independent, deep-copied view of a Metrics register
// at a point in time.
type MetricsSnapshot struct {
	LogsSent     uint64
	LogsDropped  uint64
	Errors       uint64
	Retries      uint64
	BreakerTrips uint64
	AvgLatencyMs float64
}

// NewMetrics builds an empty Metrics register.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncLogsSent adds n to logs_sent.
func (m *Metrics) IncLogsSent(n uint64) {
	m.mu.Lock()
	m.logsSent += n
	m.mu.Unlock()
}

// IncLogsDropped adds n to logs_dropped.
func (m *Metrics) IncLogsDropped(n uint64) {
	m.mu.Lock()
	m.logsDropped += n
	m.mu.Unlock()
}

// IncErrors adds one to errors.
func (m *Metrics) IncErrors() {
	m.mu.Lock()
	m.errors++
	m.mu.Unlock()
}

// IncRetries adds one to retries.
func (m *Metrics) IncRetries() {
	m.mu.Lock()
	m.retries++
	m.mu.Unlock()
}

// IncBreakerTrips adds one to breaker_trips.
func (m *Metrics) IncBreakerTrips() {
	m.mu.Lock()
	m.breakerTrips++
	m.mu.Unlock()
}

// RecordLatency pushes one successful send latency (in milliseconds) into
// the rolling window, evicting the oldest sample once the window is full.
func (m *Metrics) RecordLatency(ms float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.latencyCount < latencyWindowSize {
		m.latencies[m.latencyCount] = ms
		m.latencySum += ms
		m.latencyCount++
		return
	}
	evicted := m.latencies[m.latencyNext]
	m.latencies[m.latencyNext] = ms
	m.latencySum += ms - evicted
	m.latencyNext = (m.latencyNext + 1) % latencyWindowSize
}

// Snapshot returns an independent copy of the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var avg float64
	if m.latencyCount > 0 {
		avg = m.latencySum / float64(m.latencyCount)
	}
	return MetricsSnapshot{
		LogsSent:     m.logsSent,
		LogsDropped:  m.logsDropped,
		Errors:       m.errors,
		Retries:      m.retries,
		BreakerTrips: m.breakerTrips,
		AvgLatencyMs: avg,
	}
}

// Reset replaces all counters and the latency window with zero values.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logsSent = 0
	m.logsDropped = 0
	m.errors = 0
	m.retries = 0
	m.breakerTrips = 0
	m.latencies = [latencyWindowSize]float64{}
	m.latencyCount = 0
	m.latencyNext = 0
	m.latencySum = 0
}

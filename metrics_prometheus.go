// Copyright (c) 2026 Develeap
// SPDX-License-Identifier: MPL-2.0

package logship

import "github.com/prometheus/client_golang/prometheus"

// PrometheusSink mirrors a Metrics register onto Prometheus collectors.
// It is an optional export path: the register itself stays a private,
// mutex-guarded struct so Snapshot can keep returning independent copies
// (I6); this sink just republishes the same numbers for scraping.
type PrometheusSink struct {
	logsSent     prometheus.Counter
	logsDropped  prometheus.Counter
	errorsTotal  prometheus.Counter
	retries      prometheus.Counter
	breakerTrips prometheus.Counter
	avgLatency   prometheus.Gauge
}

// NewPrometheusSink registers the logship counters/gauge with reg. Pass
// prometheus.DefaultRegisterer to use the global registry.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		logsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logship",
			Name:      "logs_sent_total",
			Help:      "Total log records successfully delivered to the ingestion endpoint.",
		}),
		logsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logship",
			Name:      "logs_dropped_total",
			Help:      "Total log records dropped (buffer overflow or unrecoverable send failure).",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logship",
			Name:      "errors_total",
			Help:      "Total failed delivery attempts.",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logship",
			Name:      "retries_total",
			Help:      "Total retry attempts made by the retry engine.",
		}),
		breakerTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logship",
			Name:      "breaker_trips_total",
			Help:      "Total times the circuit breaker tripped open.",
		}),
		avgLatency: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "logship",
			Name:      "avg_latency_ms",
			Help:      "Rolling average successful send latency, in milliseconds.",
		}),
	}
	reg.MustRegister(s.logsSent, s.logsDropped, s.errorsTotal, s.retries, s.breakerTrips, s.avgLatency)
	return s
}

// Observe republishes a point-in-time snapshot onto the registered
// collectors. Counters only move forward, so Observe adds the delta since
// the previous call; a Metrics.Reset() between calls would make cur < prev,
// so negative deltas (a Prometheus Counter cannot move backward) are
// treated as zero rather than passed through.
func (s *PrometheusSink) Observe(prev, cur MetricsSnapshot) {
	s.logsSent.Add(nonNegativeDelta(prev.LogsSent, cur.LogsSent))
	s.logsDropped.Add(nonNegativeDelta(prev.LogsDropped, cur.LogsDropped))
	s.errorsTotal.Add(nonNegativeDelta(prev.Errors, cur.Errors))
	s.retries.Add(nonNegativeDelta(prev.Retries, cur.Retries))
	s.breakerTrips.Add(nonNegativeDelta(prev.BreakerTrips, cur.BreakerTrips))
	s.avgLatency.Set(cur.AvgLatencyMs)
}

func nonNegativeDelta(prev, cur uint64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur - prev)
}

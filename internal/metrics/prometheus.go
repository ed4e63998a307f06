package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequestsTotal counts calls to the backend services by service
	// name and outcome (ok, not_found, unauthenticated, error).
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codearena_upstream_requests_total",
			Help: "Total number of requests issued to backend services",
		},
		[]string{"service", "outcome"},
	)

	// UpstreamRequestDuration tracks backend service call latency in seconds.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codearena_upstream_request_duration_seconds",
			Help:    "Duration of backend service requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"service"},
	)

	// RealtimeEventsTotal counts frames received from the realtime gateway by
	// event name and disposition (dispatched, dropped).
	RealtimeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codearena_realtime_events_total",
			Help: "Total number of realtime events received",
		},
		[]string{"event", "disposition"},
	)

	// SessionsActive tracks the number of live authenticated sessions.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "codearena_sessions_active",
			Help: "Number of currently active authenticated sessions",
		},
	)

	// SubmissionVerdictsTotal counts terminal verdicts observed by the
	// submission tracker.
	SubmissionVerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codearena_submission_verdicts_total",
			Help: "Total number of terminal submission verdicts observed",
		},
		[]string{"status"},
	)
)

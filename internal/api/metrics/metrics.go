// Package metrics defines and registers all custom Prometheus metrics for the
// admin dashboard. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package load; the
// /metrics route exposes them next to the echoprometheus request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionHydrationsTotal counts hydration attempts.
// Label:
//   - result: "ok", "absent", "expired", "corrupt" or "unavailable"
var SessionHydrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_hydrations_total",
		Help:      "Total number of session hydration attempts, by result.",
	},
	[]string{"result"},
)

// LoginAttemptsTotal counts login submissions.
// Label:
//   - outcome: "admin", "not_admin", "rejected", "network", "invalid" or "rate_limited"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ── Upstream API metrics ──────────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls made to the remote API.
// Labels (filled by promhttp):
//   - code: HTTP status code
//   - method: HTTP method
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the remote API.",
	},
	[]string{"code", "method"},
)

// UpstreamRequestDuration measures remote API latency.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests sent to the remote API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// UpstreamInFlight tracks requests to the remote API still waiting for an answer.
var UpstreamInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "upstream_in_flight_requests",
		Help:      "Current number of outstanding requests to the remote API.",
	},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrderActionsTotal counts order board actions.
// Labels:
//   - action: "status", "delivery" or "delete"
//   - result: "ok" or the failure kind ("network", "rejected", "validation")
var OrderActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_actions_total",
		Help:      "Total number of order actions, by action and result.",
	},
	[]string{"action", "result"},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// BusyRejectionsTotal counts duplicate submissions refused while the same
// action was still outstanding.
var BusyRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "busy_rejections_total",
		Help:      "Total number of submissions rejected because the same action was in flight.",
	},
	[]string{"route"},
)

// Package metrics defines and registers all custom Prometheus metrics for
// the learning-auth service. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default registry at package init; the router
// exposes them on /metrics via echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "learnauth"

// ── Account metrics ───────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "validation_error", "duplicate", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ProgressUpdatesTotal counts accepted progress updates.
// Label:
//   - field: "progress" or "completed_lesson"
var ProgressUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "progress_updates_total",
		Help:      "Total number of applied progress-update fields.",
	},
	[]string{"field"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionsIssuedTotal counts session tokens issued on successful login.
var SessionsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of session tokens issued.",
	},
)

// SessionValidationsTotal counts session token validations.
// Label:
//   - result: "ok" or "invalid" (expired and unknown are indistinguishable)
var SessionValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Total number of session validations, by result.",
	},
	[]string{"result"},
)

// SweepsTotal counts sweep passes over the session log.
// Label:
//   - result: "ok" or "error"
var SweepsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweeps_total",
		Help:      "Total number of session log sweep passes, by result.",
	},
	[]string{"result"},
)

// SessionsPurgedTotal counts expired sessions removed by sweeps.
var SessionsPurgedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_purged_total",
		Help:      "Total number of expired sessions removed from the log.",
	},
)

// Package metrics defines the custom Prometheus metrics for the authgate
// service. It is the single source of truth for metric names, labels and
// help strings.
//
// Build one Metrics per registry with New; the router exposes that registry
// on /metrics next to the HTTP metrics collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authgate"

// Metrics groups every custom collector.
type Metrics struct {
	// LoginAttemptsTotal counts login attempts.
	// Label:
	//   - result: "success", "invalid_credentials" or "error"
	LoginAttemptsTotal *prometheus.CounterVec

	// SignupsTotal counts signup attempts.
	// Label:
	//   - result: "success", "conflict", "invalid" or "error"
	SignupsTotal *prometheus.CounterVec

	// SessionsCreatedTotal and SessionsDestroyedTotal track session churn.
	SessionsCreatedTotal   prometheus.Counter
	SessionsDestroyedTotal prometheus.Counter

	// RoleChangesTotal counts role mutation requests.
	// Labels:
	//   - action: "upgrade", "downgrade" or "other"
	//   - result: "success", "forbidden", "not_found" or "error"
	RoleChangesTotal *prometheus.CounterVec

	// AccessDeniedTotal counts requests rejected by the authorization gate.
	// Label:
	//   - reason: "unauthenticated" or "forbidden"
	AccessDeniedTotal *prometheus.CounterVec
}

// New creates and registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoginAttemptsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Total number of login attempts, by result.",
			},
			[]string{"result"},
		),
		SignupsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signups_total",
				Help:      "Total number of signup attempts, by result.",
			},
			[]string{"result"},
		),
		SessionsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of sessions created by successful logins.",
		}),
		SessionsDestroyedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_destroyed_total",
			Help:      "Total number of logout requests that destroyed a session.",
		}),
		RoleChangesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "role_changes_total",
				Help:      "Total number of role mutation requests, by action and result.",
			},
			[]string{"action", "result"},
		),
		AccessDeniedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "access_denied_total",
				Help:      "Total number of requests rejected by the authorization gate.",
			},
			[]string{"reason"},
		),
	}
}

// Nop returns a Metrics bound to a throwaway registry, for tests and tools
// that do not expose /metrics.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Package metrics defines and registers all custom Prometheus metrics for the
// MCI portal API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mci"

// ── Authentication metrics ───────────────────────────────────────────────────

// LoginAttemptsTotal counts login requests.
// Label:
//   - result: "success", "invalid_credentials", "invalid_payload" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GuardRedirectsTotal counts requests the route guard sent to the login page.
var GuardRedirectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of unauthenticated requests redirected to the login page.",
	},
)

// AuthorizationDeniedTotal counts handler-level authorization denials.
// Labels:
//   - route: the Echo route path (e.g. "/api/users")
//   - reason: "unauthenticated" or "forbidden"
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied by the role check.",
	},
	[]string{"route", "reason"},
)

// ── Audit metrics ────────────────────────────────────────────────────────────

// AuditDroppedTotal counts login attempts dropped because the buffer was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of login audit records dropped on a full buffer.",
	},
)

// AuditQueueDepth tracks pending audit records per worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of login audit records pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// ── Mail metrics ─────────────────────────────────────────────────────────────

// EmailsSentTotal counts e-mail submissions to the relay.
// Label:
//   - result: "sent" or "failed"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of transactional e-mails submitted, by result.",
	},
	[]string{"result"},
)

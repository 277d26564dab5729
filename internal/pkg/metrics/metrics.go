// Package metrics defines and registers the custom Prometheus metrics of the
// journal API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "journal"

// ── Entry metrics ─────────────────────────────────────────────────────────────

// EntriesCreatedTotal counts journal entries created through the owner-scoped API.
var EntriesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_created_total",
		Help:      "Total number of journal entries created.",
	},
)

// EntriesDeletedTotal counts journal entries deleted by their owner.
var EntriesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_deleted_total",
		Help:      "Total number of journal entries deleted.",
	},
)

// ── Account metrics ───────────────────────────────────────────────────────────

// UsersRegisteredTotal counts new accounts.
// Label:
//   - role: highest role granted, "USER" or "ADMIN"
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users, by highest role.",
	},
	[]string{"role"},
)

// LoginAttemptsTotal counts login outcomes.
// Label:
//   - result: "accepted", "rejected" or "oauth2"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailsTotal counts mail delivery outcomes.
// Label:
//   - result: "sent", "failed" or "dropped" (queue full)
var MailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mails_total",
		Help:      "Total number of mails handled by the dispatcher, by result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks the number of mails waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of mails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestDuration measures calls to external collaborators.
// Labels:
//   - provider: "weatherstack", "gemini", "github", "smtp"
//   - outcome: "ok" or "error"
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of calls to external collaborators.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider", "outcome"},
)

// WeatherCacheTotal counts weather cache lookups.
// Label:
//   - result: "hit" or "miss"
var WeatherCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "weather_cache_total",
		Help:      "Total number of weather cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

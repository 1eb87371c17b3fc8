// Package metrics defines and registers all custom Prometheus metrics for the
// taskforge services. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskforge"

// ── Account event channel metrics ─────────────────────────────────────────────

// AccountEventsPublishedTotal counts account events published to the channel.
// Label:
//   - op: "create", "update" or "delete"
var AccountEventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_events_published_total",
		Help:      "Total number of account lifecycle events published.",
	},
	[]string{"op"},
)

// AccountEventsPublishErrorsTotal counts publish attempts that failed. The
// local commit is never rolled back on publish failure, so every increment is
// potential mirror divergence.
var AccountEventsPublishErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_events_publish_errors_total",
		Help:      "Total number of account event publish failures.",
	},
)

// ── Mirror consumer metrics ───────────────────────────────────────────────────

// MirrorEventsProcessedTotal counts events the mirror consumer applied.
// Label:
//   - op: "create", "update" or "delete"
var MirrorEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mirror_events_processed_total",
		Help:      "Total number of account events applied to the local mirror.",
	},
	[]string{"op"},
)

// MirrorEventsFailedTotal counts events the consumer could not apply. The
// consumer logs, counts and advances; delivery is not retried.
// Label:
//   - op: operation tag of the failed event, or "unknown"
var MirrorEventsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mirror_events_failed_total",
		Help:      "Total number of account events that failed to apply to the mirror.",
	},
	[]string{"op"},
)

// ── Task engine metrics ───────────────────────────────────────────────────────

// TasksCreatedTotal counts successfully created tasks.
var TasksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created.",
	},
)

// TasksReassignedTotal counts individual successful task reassignments across
// all reassignment passes.
var TasksReassignedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_reassigned_total",
		Help:      "Total number of tasks successfully reassigned.",
	},
)

// TasksReassignErrorsTotal counts per-task reassignment failures. A failure
// on one task never blocks the rest of the pass.
var TasksReassignErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_reassign_errors_total",
		Help:      "Total number of task reassignment failures.",
	},
)

// ── Remote token check metrics ────────────────────────────────────────────────

// RemoteTokenChecksTotal counts calls to the auth service token check.
// Label:
//   - result: "allowed" or "denied" (network failures count as denied:
//     the check fails closed)
var RemoteTokenChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_token_checks_total",
		Help:      "Total number of remote token checks, labelled by outcome.",
	},
	[]string{"result"},
)

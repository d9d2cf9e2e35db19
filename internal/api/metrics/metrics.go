// Package metrics defines and registers all custom Prometheus metrics for the
// job board API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts lifecycle events accepted for delivery.
// Labels:
//   - kind: new_application, status_update, job_indexed or job_removed
//   - status: the new status carried by the event ("" for job_removed)
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of lifecycle events published, by kind and new status.",
	},
	[]string{"kind", "status"},
)

// EventsProcessedTotal counts events that completed processing successfully.
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of lifecycle events successfully processed.",
	},
	[]string{"kind"},
)

// EventsErrorsTotal counts events that were dropped or failed for good.
// Label:
//   - reason: "queue_full", "retries_exhausted", "publish_failed" or "decode_failed"
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of lifecycle events that failed processing.",
	},
	[]string{"kind", "reason"},
)

// EventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped), "miss" (new event) or "error"
var EventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result.",
	},
	[]string{"result"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventProcessingDuration measures one event end-to-end, retries included.
// Label:
//   - kind: the event kind
var EventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of event processing from dequeue to completion.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Search metrics ────────────────────────────────────────────────────────────

// SearchRequestsTotal counts job search requests.
// Label:
//   - result: "ok", "missing_query", "invalid" or "error"
var SearchRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_requests_total",
		Help:      "Total number of job search requests, by result.",
	},
	[]string{"result"},
)

// SearchDuration measures job search latency including suggestions.
var SearchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_duration_seconds",
		Help:      "Duration of job search requests.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Notification metrics ─────────────────────────────────────────────────────

// NotificationsSentTotal counts delivered notifications.
// Labels:
//   - channel: "email" or "sms"
//   - result: "sent" or "failed"
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification deliveries, by channel and result.",
	},
	[]string{"channel", "result"},
)

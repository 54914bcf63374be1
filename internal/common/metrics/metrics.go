// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DocumentsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_documents_scanned_total",
			Help: "Total number of pending documents returned by scan queries",
		},
		[]string{"doc_class"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_notifications_sent_total",
			Help: "Total number of notification emails dispatched",
		},
		[]string{"doc_class"},
	)

	DispatchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_dispatch_failures_total",
			Help: "Total number of failed dispatch attempts",
		},
		[]string{"doc_class"},
	)

	NotifiedWithoutDelivery = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_notified_without_delivery_total",
			Help: "Documents marked notified whose dispatch subsequently failed (pre-commit policy)",
		},
		[]string{"doc_class"},
	)

	ArchiveFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_archive_failures_total",
			Help: "Total number of failed sent-archive appends",
		},
		[]string{"doc_class"},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "notifier_scan_duration_seconds",
			Help: "Duration of a full scan invocation in seconds",
		},
	)

	ScansSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifier_scans_skipped_total",
			Help: "Scan ticks skipped because a previous invocation still held the lock",
		},
	)
)

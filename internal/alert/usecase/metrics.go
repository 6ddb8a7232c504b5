package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "station_alert"

// Metrics are the engine's Prometheus collectors.
type Metrics struct {
	Snapshots        *prometheus.CounterVec
	StaleObserved    prometheus.Counter
	Crossings        prometheus.Counter
	Throttled        *prometheus.CounterVec
	Notifications    *prometheus.CounterVec
	ConfigErrors     prometheus.Counter
	StoreErrors      *prometheus.CounterVec
	LastSentConflict prometheus.Counter
	DispatchDuration prometheus.Histogram
	QueueDepth       *prometheus.GaugeVec
	QueueFull        *prometheus.CounterVec
	HistoryPurged    prometheus.Counter
}

// NewMetrics registers the collectors on reg. A nil reg uses a fresh
// private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		Snapshots: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "snapshots_total",
			Help: "Snapshots handled, by result.",
		}, []string{"result"}),
		StaleObserved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "stale_observations_total",
			Help: "Per-alert observations ignored because the snapshot was older than the last one seen.",
		}),
		Crossings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "crossings_total",
			Help: "Threshold crossings detected.",
		}),
		Throttled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "throttled_total",
			Help: "Crossings discarded by the delivery frequency policy.",
		}, []string{"frequency"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "notifications_total",
			Help: "Dispatch attempts, by delivery status.",
		}, []string{"status"}),
		ConfigErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "config_errors_total",
			Help: "Alerts skipped for an invalid kind or threshold.",
		}),
		StoreErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "store_errors_total",
			Help: "Alert store failures, by operation.",
		}, []string{"op"}),
		LastSentConflict: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "last_sent_conflicts_total",
			Help: "Compare-and-swap conflicts on the durable last-sent time.",
		}),
		DispatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "dispatch_duration_seconds",
			Help:    "Time spent sending one notification.",
			Buckets: prometheus.DefBuckets,
		}),
		QueueDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "station_queue_depth",
			Help: "Snapshots waiting in a station worker queue.",
		}, []string{"station"}),
		QueueFull: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "station_queue_full_total",
			Help: "Times ingestion waited on a full station queue.",
		}, []string{"station"}),
		HistoryPurged: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "history_purged_total",
			Help: "Notification history records deleted by retention.",
		}),
	}
}

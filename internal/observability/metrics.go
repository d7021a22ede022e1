package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wildfire_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard engine.
type Metrics struct {
	Cycles         *prometheus.CounterVec // labels: trigger={submit,reset,map_select}, outcome={applied,rejected,failed}
	CycleDuration  prometheus.Histogram
	ViewRows       prometheus.Histogram
	StaleSnapshots prometheus.Counter
	MapSelections  prometheus.Counter

	ResultCache *prometheus.CounterVec // labels: result={hit,miss}

	// Snapshot publishing metrics.
	SnapshotPublishes *prometheus.CounterVec // labels: outcome={success,error}
	PublishEnabled    prometheus.Gauge

	ActiveSessions prometheus.Gauge
	DatasetRecords prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Reconcile-filter-aggregate cycles by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete reconcile-filter-aggregate cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ViewRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_rows",
			Help:      "Number of records selected by the applied filter.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		StaleSnapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_snapshots_total",
			Help:      "Snapshots discarded because a later cycle had already been applied.",
		}),
		MapSelections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_selections_total",
			Help:      "Map selections folded into the county filter.",
		}),
		ResultCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_cache_total",
			Help:      "Aggregate result cache lookups by result.",
		}, []string{"result"}),
		SnapshotPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_publishes_total",
			Help:      "Snapshots published to Kafka by outcome.",
		}, []string{"outcome"}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "publish_enabled",
			Help:      "1 when snapshot publishing is enabled, 0 otherwise.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Dashboard sessions currently held in memory.",
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the loaded dataset.",
		}),
	}

	prometheus.MustRegister(
		m.Cycles,
		m.CycleDuration,
		m.ViewRows,
		m.StaleSnapshots,
		m.MapSelections,
		m.ResultCache,
		m.SnapshotPublishes,
		m.PublishEnabled,
		m.ActiveSessions,
		m.DatasetRecords,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Cycles:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "cycles_total"}, []string{"trigger", "outcome"}),
		CycleDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "cycle_duration_seconds"}),
		ViewRows:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "view_rows"}),
		StaleSnapshots:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "stale_snapshots_total"}),
		MapSelections:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "map_selections_total"}),
		ResultCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "result_cache_total"}, []string{"result"}),
		SnapshotPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "snapshot_publishes_total"}, []string{"outcome"}),
		PublishEnabled:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "publish_enabled"}),
		ActiveSessions:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "active_sessions"}),
		DatasetRecords:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "dataset_records"}),
	}
}

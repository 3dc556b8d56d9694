package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "equipment_health"

// Metrics holds the Prometheus counters, histograms, and gauges for the scoring engine.
type Metrics struct {
	RecordsIngested prometheus.Counter
	RowsDropped     *prometheus.CounterVec // labels: reason={missing_key,invalid_date}
	DatasetRecords  prometheus.Gauge

	Recomputations  prometheus.Counter
	UnknownScores   prometheus.Counter
	CacheLookups    *prometheus.CounterVec // labels: result={hit,miss}
	CacheEvictions  *prometheus.CounterVec // labels: reason={capacity,retired}
	ComputeDuration prometheus.Histogram

	SnapshotsPublished prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_ingested_total",
			Help:      "Inspection records accepted by ingestion.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Data rows discarded during ingestion, by reason.",
		}, []string{"reason"}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the currently loaded dataset.",
		}),
		Recomputations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputations_total",
			Help:      "Score and aggregate recomputations (cache misses).",
		}),
		UnknownScores: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_scores_total",
			Help:      "Records that resolved to an unknown equipment score.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result.",
		}, []string{"result"}),
		CacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Cached results dropped, by reason.",
		}, []string{"reason"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Duration of a filter, score and aggregate pass.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Aggregate snapshots written to the sink topic.",
		}),
	}
}

// NewMetrics creates and registers all engine metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsIngested,
		m.RowsDropped,
		m.DatasetRecords,
		m.Recomputations,
		m.UnknownScores,
		m.CacheLookups,
		m.CacheEvictions,
		m.ComputeDuration,
		m.SnapshotsPublished,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that are not registered with any
// registry. One-shot commands use it since they never expose /metrics.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}

// ObserveIngest records the outcome of loading one dataset.
func (m *Metrics) ObserveIngest(kept int, dropped map[string]int) {
	m.RecordsIngested.Add(float64(kept))
	m.DatasetRecords.Set(float64(kept))
	for reason, n := range dropped {
		m.RowsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

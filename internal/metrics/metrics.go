// Package metrics exposes Prometheus metrics for retention runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backup_rotator"

// Run results.
const (
	ResultOK     = "ok"
	ResultError  = "error"
	ResultDryRun = "dry_run"
)

// RetentionMetrics tracks rotation runs and the actions they apply.
// A nil *RetentionMetrics is valid and records nothing.
type RetentionMetrics struct {
	// Runs counts finished runs by result.
	Runs *prometheus.CounterVec

	// Actions counts executed plan actions by kind and result.
	Actions *prometheus.CounterVec

	// Retained is the number of backups each tier kept after the last run.
	Retained *prometheus.GaugeVec

	// Candidates is the number of backups seen by the last run.
	Candidates prometheus.Gauge

	LastRun     prometheus.Gauge
	RunDuration prometheus.Histogram
}

// New registers with the default registry.
func New() *RetentionMetrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers with reg, so tests can use a private registry.
func NewWithRegistry(reg prometheus.Registerer) *RetentionMetrics {
	f := promauto.With(reg)
	return &RetentionMetrics{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "runs_total",
			Help:      "Total retention runs by result.",
		}, []string{"result"}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "actions_total",
			Help:      "Total plan actions executed by kind and result.",
		}, []string{"kind", "result"}),
		Retained: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "retained",
			Help:      "Backups kept by the last run, per tier.",
		}, []string{"tier"}),
		Candidates: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "candidates",
			Help:      "Backups considered by the last run.",
		}),
		LastRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last finished run.",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "retention",
			Name:      "run_duration_seconds",
			Help:      "Duration of retention runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// RecordRun records a finished run.
func (m *RetentionMetrics) RecordRun(result string, started, finished time.Time) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(result).Inc()
	m.RunDuration.Observe(finished.Sub(started).Seconds())
	m.LastRun.Set(float64(finished.Unix()))
}

// RecordAction records one executed action.
func (m *RetentionMetrics) RecordAction(kind string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.Actions.WithLabelValues(kind, result).Inc()
}

// RecordRetained sets the per-tier gauges and the candidate count.
func (m *RetentionMetrics) RecordRetained(candidates, daily, weekly, monthly int) {
	if m == nil {
		return
	}
	m.Candidates.Set(float64(candidates))
	m.Retained.WithLabelValues("daily").Set(float64(daily))
	m.Retained.WithLabelValues("weekly").Set(float64(weekly))
	m.Retained.WithLabelValues("monthly").Set(float64(monthly))
}

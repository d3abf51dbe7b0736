// Package prometheus implements the metrics.Metrics interface on a
// dedicated Prometheus registry. The registry is not the global default,
// so tests and embedded use never collide on duplicate registration.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marmos91/dropvault/pkg/metrics"
)

// Metrics is the Prometheus-backed implementation of metrics.Metrics.
type Metrics struct {
	registry *prometheus.Registry

	sweepsTotal          prometheus.Counter
	sweepDuration        prometheus.Histogram
	phaseFailures        *prometheus.CounterVec
	filesReclaimed       prometheus.Counter
	recordsMarkedExpired prometheus.Counter
	recordsHardDeleted   prometheus.Counter
	sequenceRestarts     prometheus.Counter
	sessionsReclaimed    prometheus.Counter
	chunkDeletions       *prometheus.CounterVec
	usageRowsPruned      prometheus.Counter
}

var _ metrics.Metrics = (*Metrics)(nil)

// New creates the Prometheus metrics backend on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	return &Metrics{
		registry: reg,
		sweepsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dropvault_sweeper_sweeps_total",
				Help: "Total number of sweep cycles started",
			},
		),
		sweepDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name: "dropvault_sweeper_sweep_duration_seconds",
				Help: "Duration of full sweep cycles in seconds",
				Buckets: []float64{
					0.01, // 10ms - empty sweep
					0.05, // 50ms
					0.1,  // 100ms
					0.5,  // 500ms
					1,    // 1s
					5,    // 5s
					15,   // 15s
					60,   // 1m - pathological
				},
			},
		),
		phaseFailures: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dropvault_sweeper_phase_failures_total",
				Help: "Total number of failed sweep phases by phase",
			},
			[]string{"phase"},
		),
		filesReclaimed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dropvault_sweeper_files_reclaimed_total",
				Help: "Total number of expired artifact files removed from disk",
			},
		),
		recordsMarkedExpired: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dropvault_sweeper_records_marked_expired_total",
				Help: "Total number of content records flagged expired",
			},
		),
		recordsHardDeleted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dropvault_sweeper_records_hard_deleted_total",
				Help: "Total number of content records permanently removed",
			},
		),
		sequenceRestarts: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dropvault_sweeper_sequence_restarts_total",
				Help: "Total number of identifier sequence rewinds",
			},
		),
		sessionsReclaimed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dropvault_sweeper_sessions_reclaimed_total",
				Help: "Total number of stale upload sessions removed",
			},
		),
		chunkDeletions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dropvault_upload_chunk_deletions_total",
				Help: "Total number of chunk deletion attempts by outcome",
			},
			[]string{"outcome"},
		),
		usageRowsPruned: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dropvault_sweeper_usage_rows_pruned_total",
				Help: "Total number of usage-stat rows removed by retention",
			},
		),
	}
}

// Handler returns the HTTP handler serving this registry in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) SweepStarted() {
	m.sweepsTotal.Inc()
}

func (m *Metrics) SweepDuration(seconds float64) {
	m.sweepDuration.Observe(seconds)
}

func (m *Metrics) PhaseFailed(phase string) {
	m.phaseFailures.WithLabelValues(phase).Inc()
}

func (m *Metrics) FilesReclaimed(n int) {
	m.filesReclaimed.Add(float64(n))
}

func (m *Metrics) RecordsMarkedExpired(n int64) {
	m.recordsMarkedExpired.Add(float64(n))
}

func (m *Metrics) RecordsHardDeleted(n int64) {
	m.recordsHardDeleted.Add(float64(n))
}

func (m *Metrics) SequenceRestarted() {
	m.sequenceRestarts.Inc()
}

func (m *Metrics) SessionsReclaimed(n int) {
	m.sessionsReclaimed.Add(float64(n))
}

func (m *Metrics) ChunkDeleted(outcome string) {
	m.chunkDeletions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) UsageRowsPruned(n int64) {
	m.usageRowsPruned.Add(float64(n))
}

// Package metrics records per-run filter metrics in a private Prometheus
// registry and exports them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"simfilter/core/selector"
	"simfilter/core/stats"
)

const namespace = "simfilter"

// Row outcomes.
const (
	OutcomeSelected       = "selected"
	OutcomeEValueRejected = "evalue_rejected"
	OutcomeOutranked      = "outranked"
)

// Metrics is one run's collectors. Safe for concurrent use.
type Metrics struct {
	reg *prometheus.Registry

	rows          *prometheus.CounterVec
	queries       *prometheus.GaugeVec
	stageDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alignment_rows_total",
				Help:      "Alignment rows processed, by database and outcome",
			},
			[]string{"database", "outcome"},
		),
		queries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queries",
				Help:      "Queries per result category after selection",
			},
			[]string{"database", "category"}, // "best" / "no_hit" / "contaminant" / "informative"
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Wall time of pipeline stages",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 1800},
			},
			[]string{"stage"},
		),
	}
	m.reg.MustRegister(m.rows, m.queries, m.stageDuration)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveSelection adds a database's selector counters.
func (m *Metrics) ObserveSelection(database string, c selector.Counters) {
	m.rows.WithLabelValues(database, OutcomeSelected).Add(float64(c.Total - c.Unselected()))
	m.rows.WithLabelValues(database, OutcomeEValueRejected).Add(float64(c.EValueRejected))
	m.rows.WithLabelValues(database, OutcomeOutranked).Add(float64(c.Outranked))
}

// ObserveSummary sets the per-category query gauges for database.
func (m *Metrics) ObserveSummary(database string, s stats.Summary) {
	m.queries.WithLabelValues(database, "best").Set(float64(s.Unique))
	m.queries.WithLabelValues(database, "no_hit").Set(float64(s.NoHits))
	m.queries.WithLabelValues(database, "contaminant").Set(float64(s.Contaminants))
	m.queries.WithLabelValues(database, "informative").Set(float64(s.Informative))
}

// ObserveStage records how long stage took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

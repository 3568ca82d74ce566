// Package monitoring records per-run pipeline metrics in a private
// Prometheus registry and persists them for the node-exporter textfile
// collector.
package monitoring

import (
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"

	"github.com/sells-group/crimemap/internal/crime"
)

const namespace = "crimemap"

// StageInput labels the row count before any filter stage ran.
const StageInput = "input"

// Metrics holds the gauges and counters of one pipeline run.
type Metrics struct {
	StageRows        *prometheus.GaugeVec   // labels: stage={input,located,included,recent,daytime}
	DocumentsWritten *prometheus.CounterVec // labels: kind={html,xlsx}
	RunDuration      prometheus.Gauge
	CutoffYear       prometheus.Gauge

	registry *prometheus.Registry
	clock    clockwork.Clock
}

// NewMetrics creates the run metrics on a fresh registry. A nil clock uses
// real time.
func NewMetrics(clock clockwork.Clock) *Metrics {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	m := &Metrics{
		StageRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows",
			Help:      "Rows remaining after each filter stage of the last run.",
		}, []string{"stage"}),
		DocumentsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_written_total",
			Help:      "Output documents written by kind.",
		}, []string{"kind"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		CutoffYear: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cutoff_year",
			Help:      "Most recent year kept by the last run.",
		}),
		registry: prometheus.NewRegistry(),
		clock:    clock,
	}

	m.registry.MustRegister(
		m.StageRows,
		m.DocumentsWritten,
		m.RunDuration,
		m.CutoffYear,
	)

	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFilter records the row counts and cutoff year of a filter run.
func (m *Metrics) ObserveFilter(res crime.Result) {
	m.StageRows.WithLabelValues(StageInput).Set(float64(res.Input))
	for _, s := range res.Stages {
		m.StageRows.WithLabelValues(s.Stage).Set(float64(s.Rows))
	}
	m.CutoffYear.Set(float64(res.Year))
}

// DocumentWritten counts one output document of the given kind.
func (m *Metrics) DocumentWritten(kind string) {
	m.DocumentsWritten.WithLabelValues(kind).Inc()
}

// StartRun begins timing a run. The returned func records the elapsed time.
func (m *Metrics) StartRun() func() {
	start := m.clock.Now()
	return func() {
		m.RunDuration.Set(m.clock.Since(start).Seconds())
	}
}

// WriteTextfile writes the metrics in the text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return eris.Wrapf(err, "monitoring: write textfile %s", path)
	}
	return nil
}

package importer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// File outcomes used as the status label.
const (
	StatusImported = "imported"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// Metrics contains Prometheus metrics for an import run
type Metrics struct {
	registry *prometheus.Registry

	filesTotal         *prometheus.CounterVec
	rowsReadTotal      prometheus.Counter
	eventsWrittenTotal prometheus.Counter
	fileDuration       prometheus.Histogram
	lastRunTimestamp   prometheus.Gauge

	// collectors is a slice of all collectors for easier iteration
	collectors []prometheus.Collector
}

// NewMetrics creates the import metrics and registers them with registry.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.filesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birdnet_sql_files_total",
			Help: "Result files processed, by outcome",
		},
		[]string{"status"}, // imported, skipped, failed
	)

	m.rowsReadTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "birdnet_sql_rows_read_total",
		Help: "Raw detection rows read from result files",
	})

	m.eventsWrittenTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "birdnet_sql_events_written_total",
		Help: "Aggregated events written to the database",
	})

	m.fileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "birdnet_sql_file_duration_seconds",
		Help:    "Time taken to import a single result file",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
	})

	m.lastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "birdnet_sql_last_run_timestamp_seconds",
		Help: "Unix time the last import run finished",
	})

	m.collectors = []prometheus.Collector{
		m.filesTotal,
		m.rowsReadTotal,
		m.eventsWrittenTotal,
		m.fileDuration,
		m.lastRunTimestamp,
	}
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordFile records the outcome and duration of one file.
func (m *Metrics) RecordFile(status string, duration time.Duration) {
	m.filesTotal.WithLabelValues(status).Inc()
	m.fileDuration.Observe(duration.Seconds())
}

// RecordRows adds n raw rows read.
func (m *Metrics) RecordRows(n int) {
	m.rowsReadTotal.Add(float64(n))
}

// RecordEvents adds n events written.
func (m *Metrics) RecordEvents(n int) {
	m.eventsWrittenTotal.Add(float64(n))
}

// RecordRunEnd stamps the end of a run.
func (m *Metrics) RecordRunEnd(t time.Time) {
	m.lastRunTimestamp.Set(float64(t.Unix()))
}

// WriteTextfile writes all registered metrics in the text exposition format,
// for pickup by the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

package fetcher

import (
	"fmt"
	"time"

	"github.com/hickst/qmtools/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of a qmtools run.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts HTTP requests by target and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes HTTP request latency by target.
	RequestDuration *prometheus.HistogramVec

	// PagesTotal counts pages processed per modality.
	PagesTotal *prometheus.CounterVec

	// RecordsTotal counts records per modality and outcome
	// (kept, duplicate, missing_checksum).
	RecordsTotal *prometheus.CounterVec

	// LastFetchTimestamp is the completion time of the last successful
	// session per modality.
	LastFetchTimestamp *prometheus.GaugeVec
}

// NewMetrics creates the metrics on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qmtools_http_requests_total",
				Help: "Total number of requests sent to the MRIQC server",
			},
			[]string{"target", "code"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qmtools_http_request_duration_seconds",
				Help:    "Duration of requests to the MRIQC server in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"target"},
		),
		PagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qmtools_fetch_pages_total",
				Help: "Total number of result pages processed",
			},
			[]string{"modality"},
		),
		RecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qmtools_fetch_records_total",
				Help: "Total number of fetched records by outcome",
			},
			[]string{"modality", "outcome"},
		),
		LastFetchTimestamp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "qmtools_last_fetch_timestamp_seconds",
				Help: "Unix time of the last completed fetch session",
			},
			[]string{"modality"},
		),
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in Prometheus text format to path,
// for collection by the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func (m *Metrics) observeRequest(target, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(target, code).Inc()
	m.RequestDuration.WithLabelValues(target).Observe(elapsed.Seconds())
}

func (m *Metrics) observePage(modality model.Modality, stats model.DedupStats) {
	if m == nil {
		return
	}
	mod := modality.String()
	m.PagesTotal.WithLabelValues(mod).Inc()
	m.RecordsTotal.WithLabelValues(mod, "kept").Add(float64(stats.Kept))
	m.RecordsTotal.WithLabelValues(mod, "duplicate").Add(float64(stats.Duplicates))
	m.RecordsTotal.WithLabelValues(mod, "missing_checksum").Add(float64(stats.Missing))
}

func (m *Metrics) observeSession(modality model.Modality, finished time.Time) {
	if m == nil {
		return
	}
	m.LastFetchTimestamp.WithLabelValues(modality.String()).Set(float64(finished.Unix()))
}

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the import service.
type Metrics struct {
	ImportsTotal   *prometheus.CounterVec
	ExtractorHits  *prometheus.CounterVec
	ImportDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		ImportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ladle_imports_total",
			Help: "The total number of import requests by outcome",
		}, []string{"outcome"}), // "success" or the error code
		ExtractorHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ladle_extractor_hits_total",
			Help: "The total number of successful imports by extractor strategy",
		}, []string{"extractor"}),
		ImportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ladle_import_duration_seconds",
			Help:    "End-to-end import duration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveImport records one finished import.
func (m *Metrics) ObserveImport(outcome, extractor string, duration time.Duration) {
	m.ImportsTotal.WithLabelValues(outcome).Inc()
	if extractor != "" {
		m.ExtractorHits.WithLabelValues(extractor).Inc()
	}
	m.ImportDuration.Observe(duration.Seconds())
}

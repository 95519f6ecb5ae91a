package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pccclearclinic/form-filling-template/pkg/delivery"
	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

const namespace = "formfill"

// Metrics holds the document generation and delivery counter metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	// generations counts Generate calls.
	// Labels: document, outcome (success, invalid_intake, template_fetch, missing_field, error)
	generations *prometheus.CounterVec

	// generationDuration measures template fetch through finalize.
	// Labels: document
	generationDuration *prometheus.HistogramVec

	// counterUpdates counts detached delivery counter bumps.
	// Labels: status (success, error)
	counterUpdates *prometheus.CounterVec
}

var (
	_ engine.Observer          = (*Metrics)(nil)
	_ delivery.CounterObserver = (*Metrics)(nil)
)

// NewMetrics registers the metrics with reg. A nil reg uses a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "generations_total",
			Help:      "Total document generations by outcome",
		}, []string{"document", "outcome"}),
		generationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "generation_duration_seconds",
			Help:      "Document generation latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"document"}),
		counterUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "counter_updates_total",
			Help:      "Total delivery counter updates by status",
		}, []string{"status"}),
	}
}

// ObserveGeneration implements engine.Observer.
func (m *Metrics) ObserveGeneration(doc registry.DocumentID, outcome string, elapsed time.Duration) {
	m.generations.WithLabelValues(doc.String(), outcome).Inc()
	m.generationDuration.WithLabelValues(doc.String()).Observe(elapsed.Seconds())
}

// ObserveCounterUpdate implements delivery.CounterObserver.
func (m *Metrics) ObserveCounterUpdate(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.counterUpdates.WithLabelValues(status).Inc()
}

// Handler serves the registered metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

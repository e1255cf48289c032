// Package metrics exposes Prometheus counters for crawl cycles, renders and deliveries.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "crawler"

// Cycle outcomes
const (
	OutcomeCompleted = "completed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
	OutcomeEmpty     = "empty"
)

// Result labels for renders and deliveries
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds the crawler's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	RendersTotal    *prometheus.CounterVec
	DeliveriesTotal *prometheus.CounterVec
	CyclesTotal     *prometheus.CounterVec
	CycleDuration   *prometheus.HistogramVec
	Running         *prometheus.GaugeVec
}

// New creates and registers the collectors with reg (the default registerer when nil)
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "render_total",
			Help:      "Article page renders by result",
		}, []string{"source", "outcome"}),

		DeliveriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "delivery_total",
			Help:      "Article deliveries to the ingestion API by result",
		}, []string{"source", "outcome"}),

		CyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cycles_total",
			Help:      "Crawl cycles by outcome",
		}, []string{"source", "outcome"}),

		CycleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of completed crawl cycles",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
		}, []string{"source"}),

		Running: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "running",
			Help:      "1 while a crawl cycle of the source is in progress",
		}, []string{"source"}),
	}
}

// ObserveRender counts one article render
func (m *Metrics) ObserveRender(source string, ok bool) {
	if m == nil {
		return
	}
	m.RendersTotal.WithLabelValues(source, result(ok)).Inc()
}

// ObserveDelivery counts one delivery attempt
func (m *Metrics) ObserveDelivery(source string, ok bool) {
	if m == nil {
		return
	}
	m.DeliveriesTotal.WithLabelValues(source, result(ok)).Inc()
}

// ObserveCycle counts a finished cycle. Duration is recorded for cycles that actually ran.
func (m *Metrics) ObserveCycle(source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.CyclesTotal.WithLabelValues(source, outcome).Inc()
	if outcome != OutcomeSkipped {
		m.CycleDuration.WithLabelValues(source).Observe(d.Seconds())
	}
}

// SetRunning flips the running gauge of source
func (m *Metrics) SetRunning(source string, running bool) {
	if m == nil {
		return
	}
	v := 0.0
	if running {
		v = 1
	}
	m.Running.WithLabelValues(source).Set(v)
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func result(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}

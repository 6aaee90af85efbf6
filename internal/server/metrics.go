package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors live on the default registry as process-wide singletons,
// so Metrics can be constructed any number of times.
var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sumbench_active_requests",
		Help: "Number of HTTP requests currently being served.",
	})
	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sumbench_requests_total",
		Help: "Total number of HTTP requests served.",
	})
	sweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sumbench_sweeps_total",
		Help: "Total number of benchmark sweeps started.",
	})
	inputsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sumbench_inputs_total",
		Help: "Total number of sweep inputs processed.",
	})
	mismatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sumbench_mismatches_total",
		Help: "Total number of inputs whose strategies disagreed.",
	})
	activeSweeps = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sumbench_active_sweeps",
		Help: "Number of sweeps currently running.",
	})
	strategyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sumbench_strategy_duration_seconds",
		Help:    "Measured wall-clock duration of one timed strategy run.",
		Buckets: prometheus.ExponentialBuckets(1e-7, 10, 10),
	}, []string{"strategy"})
)

// Metrics exposes the Prometheus scrape handler together with the
// update hooks the benchmark records its activity through.
type Metrics struct {
	handler http.Handler
}

// NewMetrics creates a Metrics handle over the default registry, which
// already carries the Go runtime and process collectors.
func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

// IncrementActiveRequests marks an HTTP request as in flight.
func (m *Metrics) IncrementActiveRequests() {
	activeRequests.Inc()
	requestsTotal.Inc()
}

// DecrementActiveRequests marks an HTTP request as finished.
func (m *Metrics) DecrementActiveRequests() {
	activeRequests.Dec()
}

// SweepStarted marks a sweep as running.
func (m *Metrics) SweepStarted() {
	sweepsTotal.Inc()
	activeSweeps.Inc()
}

// SweepFinished marks a sweep as done.
func (m *Metrics) SweepFinished() {
	activeSweeps.Dec()
}

// CountInput records one processed sweep input and whether its
// strategies agreed.
func (m *Metrics) CountInput(consistent bool) {
	inputsTotal.Inc()
	if !consistent {
		mismatchesTotal.Inc()
	}
}

// ObserveStrategyDuration records one timed run for a strategy key.
func (m *Metrics) ObserveStrategyDuration(strategy string, d time.Duration) {
	strategyDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

// WritePrometheus serves the scrape response in the Prometheus text
// exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

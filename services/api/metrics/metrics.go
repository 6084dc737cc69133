package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the irrigation collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	readings       prometheus.Counter
	activations    *prometheus.CounterVec
	plantState     prometheus.Gauge
	pumpTime       prometheus.Gauge
	evalDuration   prometheus.Histogram
	sinkErrors     *prometheus.CounterVec
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		readings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "irrigation_readings_total",
			Help: "Total sensor readings evaluated and stored.",
		}),
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "irrigation_pump_activations_total",
			Help: "Total pump activation decisions by strategy.",
		}, []string{"strategy"}),
		plantState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "irrigation_plant_state",
			Help: "Plant state of the latest evaluation (0 bad, 100 good).",
		}),
		pumpTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "irrigation_pump_time",
			Help: "Pump time of the latest evaluation.",
		}),
		evalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "irrigation_evaluation_duration_seconds",
			Help:    "Histogram of fuzzy evaluation durations.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		sinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "irrigation_sink_errors_total",
			Help: "Total failures publishing stored records by sink.",
		}, []string{"sink"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.readings,
		m.activations,
		m.plantState,
		m.pumpTime,
		m.evalDuration,
		m.sinkErrors,
		m.requestsTotal,
		m.requestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the dedicated registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Evaluation records one stored evaluation.
func (m *Metrics) Evaluation(strategy string, plantState, pumpTime float64, activate bool, took time.Duration) {
	if m == nil {
		return
	}
	m.readings.Inc()
	m.plantState.Set(plantState)
	m.pumpTime.Set(pumpTime)
	m.evalDuration.Observe(took.Seconds())
	if activate {
		m.activations.WithLabelValues(strategy).Inc()
	}
}

func (m *Metrics) SinkError(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}

func (m *Metrics) Request(route, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, status).Inc()
	m.requestLatency.WithLabelValues(route).Observe(took.Seconds())
}

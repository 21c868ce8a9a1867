package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// fit durations are in the microsecond to millisecond range
var defaultBuckets = prometheus.ExponentialBuckets(1e-6, 4, 10)

// Manager manages the Prometheus collectors. A nil Manager records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	fits               *prometheus.CounterVec
	fitErrors          *prometheus.CounterVec
	degenerateFits     *prometheus.CounterVec
	fitDuration        *prometheus.HistogramVec
	rSquared           prometheus.Gauge
	slope              prometheus.Gauge
	intercept          prometheus.Gauge
	trainingPoints     prometheus.Gauge
	predictions        prometheus.Counter
	clampedPredictions prometheus.Counter
}

// NewManager creates a metrics manager on its own registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "linfit",
		subsystem:        "model",
		histogramBuckets: defaultBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(collectors.NewGoCollector())
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.fits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fits_total",
		Help:      "Total number of successful fits",
	}, []string{"method"})

	m.fitErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fit_errors_total",
		Help:      "Total number of rejected fits",
	}, []string{"method"})

	m.degenerateFits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "degenerate_fits_total",
		Help:      "Total number of fits where every x was equal and a horizontal line was used",
	}, []string{"method"})

	m.fitDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fit_duration_seconds",
		Help:      "Time spent estimating and scoring a line",
		Buckets:   m.histogramBuckets,
	}, []string{"method"})

	m.rSquared = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "r_squared",
		Help:      "Coefficient of determination of the latest fit",
	})

	m.slope = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "slope",
		Help:      "Slope of the latest fit",
	})

	m.intercept = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "intercept",
		Help:      "Intercept of the latest fit",
	})

	m.trainingPoints = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "training_points",
		Help:      "Number of observations used by the latest fit",
	})

	m.predictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of predictions",
	})

	m.clampedPredictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clamped_predictions_total",
		Help:      "Total number of predictions bounded to the configured range",
	})
}

// FitObservation describes a completed fit
type FitObservation struct {
	Method     string
	Duration   time.Duration
	Slope      float64
	Intercept  float64
	RSquared   float64
	Points     int
	Degenerate bool
}

// RecordFit records a successful fit and publishes its line and score
func (m *Manager) RecordFit(obs FitObservation) {
	if m == nil {
		return
	}
	m.fits.WithLabelValues(obs.Method).Inc()
	m.fitDuration.WithLabelValues(obs.Method).Observe(obs.Duration.Seconds())
	if obs.Degenerate {
		m.degenerateFits.WithLabelValues(obs.Method).Inc()
	}
	m.rSquared.Set(obs.RSquared)
	m.slope.Set(obs.Slope)
	m.intercept.Set(obs.Intercept)
	m.trainingPoints.Set(float64(obs.Points))
}

// RecordFitError records a fit that was rejected
func (m *Manager) RecordFitError(method string) {
	if m == nil {
		return
	}
	m.fitErrors.WithLabelValues(method).Inc()
}

// RecordPrediction records a prediction and whether it had to be bounded
func (m *Manager) RecordPrediction(clamped bool) {
	if m == nil {
		return
	}
	m.predictions.Inc()
	if clamped {
		m.clampedPredictions.Inc()
	}
}

// Registry returns the registry every collector is registered on
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

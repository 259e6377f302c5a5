package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"diabetescheck/ml"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "diabetescheck"

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	predictions      *prometheus.CounterVec
	predictionTime   prometheus.Histogram
	feedback         *prometheus.CounterVec
	accuracy         prometheus.Gauge
	sessionsCreated  prometheus.Counter
	validationErrors *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions served, by predicted outcome",
		}, []string{"diabetic"}),
		predictionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Classifier latency in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_total",
			Help:      "Feedback records saved, by confirmed correctness",
		}, []string{"correct"}),
		accuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accuracy_ratio",
			Help:      "Cumulative accuracy over all feedback",
		}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions opened",
		}),
		validationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Rejected form fields",
		}, []string{"field"}),
	}
	m.registry.MustRegister(
		m.predictions,
		m.predictionTime,
		m.feedback,
		m.accuracy,
		m.sessionsCreated,
		m.validationErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObservePrediction(outcome ml.Outcome, elapsed time.Duration) {
	m.predictions.WithLabelValues(strconv.FormatBool(outcome.Diabetic)).Inc()
	m.predictionTime.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFeedback(correct bool, accuracy float64) {
	m.feedback.WithLabelValues(strconv.FormatBool(correct)).Inc()
	m.accuracy.Set(accuracy)
}

func (m *Metrics) SetAccuracy(accuracy float64) {
	m.accuracy.Set(accuracy)
}

func (m *Metrics) SessionCreated() {
	m.sessionsCreated.Inc()
}

func (m *Metrics) ValidationFailed(field string) {
	m.validationErrors.WithLabelValues(field).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/estate-docs/internal/core/domain"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	verifyTotal    *prometheus.CounterVec
	verifyDuration *prometheus.HistogramVec
	verifyInFlight prometheus.Gauge
	queueLag       *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	verifyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "document_verify_total",
			Help:      "Total verified documents by outcome.",
		},
		[]string{"service", "outcome"},
	)
	verifyDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "document_verify_duration_seconds",
			Help:      "Document verification duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "outcome"},
	)
	verifyInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "document_verify_in_flight",
			Help:      "Number of in-flight verification tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between upload and verification start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)

	registry.MustRegister(verifyTotal, verifyDuration, verifyInFlight, queueLag)

	return &WorkerMetrics{
		registry:       registry,
		verifyTotal:    verifyTotal,
		verifyDuration: verifyDuration,
		verifyInFlight: verifyInFlight,
		queueLag:       queueLag,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartVerification() {
	m.verifyInFlight.Inc()
}

func (m *WorkerMetrics) FinishVerification(service string, duration time.Duration, err error) {
	m.verifyInFlight.Dec()

	outcome := verificationOutcome(err)
	m.verifyTotal.WithLabelValues(service, outcome).Inc()
	m.verifyDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func verificationOutcome(err error) string {
	switch {
	case err == nil:
		return "authenticated"
	case errors.Is(err, domain.ErrInfected):
		return "infected"
	case errors.Is(err, domain.ErrInvalidInput):
		return "rejected"
	case errors.Is(err, domain.ErrTemporary):
		return "temporary"
	default:
		return "error"
	}
}

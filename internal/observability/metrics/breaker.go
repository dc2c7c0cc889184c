package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BreakerStates snapshots circuit breaker states keyed by operation name.
type BreakerStates func() map[string]string

var breakerStateValues = map[string]float64{
	"closed":    0,
	"half-open": 1,
	"open":      2,
}

// breakerCollector reads breaker states at scrape time, so breakers created after
// registration are still exported.
type breakerCollector struct {
	service  string
	snapshot BreakerStates
	desc     *prometheus.Desc
}

func newBreakerCollector(service string, snapshot BreakerStates) *breakerCollector {
	return &breakerCollector{
		service:  service,
		snapshot: snapshot,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "resilience", "circuit_breaker_state"),
			"Circuit breaker state per operation: 0 closed, 1 half-open, 2 open.",
			[]string{"service", "operation"}, nil,
		),
	}
}

func (c *breakerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *breakerCollector) Collect(ch chan<- prometheus.Metric) {
	for operation, state := range c.snapshot() {
		value, ok := breakerStateValues[state]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, value, c.service, operation)
	}
}

// RegisterBreakerStates exports the given breaker snapshot on the API registry.
func (m *HTTPServerMetrics) RegisterBreakerStates(service string, snapshot BreakerStates) {
	m.registry.MustRegister(newBreakerCollector(service, snapshot))
}

// RegisterBreakerStates exports the given breaker snapshot on the worker registry.
func (m *WorkerMetrics) RegisterBreakerStates(service string, snapshot BreakerStates) {
	m.registry.MustRegister(newBreakerCollector(service, snapshot))
}

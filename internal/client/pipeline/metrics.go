package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the pipeline's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "admin",
			Subsystem: "http_client",
			Name:      "in_flight_requests",
			Help:      "Backend requests currently counted by the loading indicator.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "admin",
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Backend requests by method and outcome.",
		}, []string{"method", "outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "admin",
			Subsystem: "http_client",
			Name:      "failures_total",
			Help:      "Failed backend requests by failure class.",
		}, []string{"class"}),
	}
	reg.MustRegister(m.inFlight, m.requests, m.failures)
	return m
}

func (m *Metrics) setInFlight(n int) {
	if m == nil {
		return
	}
	m.inFlight.Set(float64(n))
}

func (m *Metrics) observe(method, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) fail(class Class) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(string(class)).Inc()
}

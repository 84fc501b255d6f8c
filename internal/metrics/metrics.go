package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for relay operations.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "upstream_rejected"
	OutcomeTransport = "transport_failure"
)

// Relay holds the collectors describing forwarded requests.
type Relay struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight *prometheus.GaugeVec
}

// NewRelay creates the relay collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewRelay(reg prometheus.Registerer) *Relay {
	m := &Relay{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aria_relay_upstream_requests_total",
				Help: "Upstream requests issued by the relay, by upstream and outcome",
			},
			[]string{"upstream", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aria_relay_upstream_request_duration_seconds",
				Help:    "Latency of upstream requests issued by the relay",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"upstream"},
		),
		inflight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "aria_relay_upstream_requests_inflight",
				Help: "Upstream requests currently awaiting a response",
			},
			[]string{"upstream"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.inflight)
	}
	return m
}

// Start marks an upstream call as in flight and returns a function that
// records its completion with the given outcome.
func (m *Relay) Start(upstream string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.inflight.WithLabelValues(upstream).Inc()
	return func(outcome string) {
		m.inflight.WithLabelValues(upstream).Dec()
		m.duration.WithLabelValues(upstream).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(upstream, outcome).Inc()
	}
}

package planner

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Generation outcome labels.
const (
	OutcomeSuccess       = "success"
	OutcomeUpstreamError = "upstream_error"
	OutcomeParseError    = "parse_error"
)

// Metrics counts plan generation outcomes.
type Metrics struct {
	generations *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
}

// NewMetrics creates and registers the planner metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plan_generations_total",
				Help: "Plan generation attempts by plan type and outcome",
			},
			[]string{"plan_type", "outcome"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plan_fallbacks_served_total",
				Help: "Static fallback plans served after generation failure",
			},
			[]string{"plan_type"},
		),
	}
	reg.MustRegister(m.generations, m.fallbacks)
	return m
}

// RecordGeneration counts a generation attempt outcome.
func (m *Metrics) RecordGeneration(planType, outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(planType, outcome).Inc()
}

// RecordFallback counts a static fallback response.
func (m *Metrics) RecordFallback(planType string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(planType).Inc()
}

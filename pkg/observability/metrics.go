// Package observability provides ready-made Prometheus instrumentation
// wired through the engine's lifecycle hooks.
package observability

import (
	"context"

	"github.com/aretw0/magie/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the conversation counters.
type Metrics struct {
	turns    prometheus.Counter
	intents  *prometheus.CounterVec
	outcomes *prometheus.CounterVec
}

// NewMetrics creates and registers the counters on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "magie_turns_total",
			Help: "Total number of processed conversation turns",
		}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "magie_intents_total",
			Help: "Total number of resolved intents",
		}, []string{"intent"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "magie_outcomes_total",
			Help: "Total number of turn outcomes",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(m.turns, m.intents, m.outcomes)
	return m
}

// Hooks returns lifecycle hooks that feed the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			m.turns.Inc()
		},
		OnIntent: func(ctx context.Context, e *domain.IntentEvent) {
			m.intents.WithLabelValues(string(e.Intent)).Inc()
		},
		OnOutcome: func(ctx context.Context, e *domain.OutcomeEvent) {
			m.outcomes.WithLabelValues(string(e.Kind), string(e.Outcome)).Inc()
		},
	}
}

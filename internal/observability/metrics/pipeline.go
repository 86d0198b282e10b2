package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
)

// Pipeline counts clause pipeline outcomes. It is shared by the API and the worker.
type Pipeline struct {
	service string

	analysesTotal      *prometheus.CounterVec
	analysisDuration   *prometheus.HistogramVec
	clausesPerAnalysis *prometheus.HistogramVec
	suggestionFailures *prometheus.CounterVec
	breakerState       *prometheus.GaugeVec
}

func newPipeline(registry *prometheus.Registry, service string) *Pipeline {
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lcv",
			Subsystem: "pipeline",
			Name:      "analyses_total",
			Help:      "Total analyses by outcome; failures are labelled with the failing stage.",
		},
		[]string{"service", "outcome"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lcv",
			Subsystem: "pipeline",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service", "outcome"},
	)
	clausesPerAnalysis := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lcv",
			Subsystem: "pipeline",
			Name:      "clauses_per_analysis",
			Help:      "Distribution of retained clauses per successful analysis.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200},
		},
		[]string{"service"},
	)
	suggestionFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lcv",
			Subsystem: "pipeline",
			Name:      "suggestion_failures_total",
			Help:      "Clauses whose rewrite suggestion failed.",
		},
		[]string{"service"},
	)
	breakerState := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "lcv",
			Subsystem: "resilience",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state per operation: 0 closed, 1 half-open, 2 open.",
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(analysesTotal, analysisDuration, clausesPerAnalysis, suggestionFailures, breakerState)

	return &Pipeline{
		service:            service,
		analysesTotal:      analysesTotal,
		analysisDuration:   analysisDuration,
		clausesPerAnalysis: clausesPerAnalysis,
		suggestionFailures: suggestionFailures,
		breakerState:       breakerState,
	}
}

// RecordAnalysis is called once per pipeline run, successful or not.
func (p *Pipeline) RecordAnalysis(analysis *domain.Analysis, duration time.Duration, err error) {
	outcome := Outcome(err)
	p.analysesTotal.WithLabelValues(p.service, outcome).Inc()
	p.analysisDuration.WithLabelValues(p.service, outcome).Observe(duration.Seconds())
	if err != nil || analysis == nil {
		return
	}
	p.clausesPerAnalysis.WithLabelValues(p.service).Observe(float64(analysis.TotalClauses))
	if failed := analysis.FailedSuggestions(); failed > 0 {
		p.suggestionFailures.WithLabelValues(p.service).Add(float64(failed))
	}
}

// ObserveBreaker matches resilience.StateObserver.
func (p *Pipeline) ObserveBreaker(operation string, _, to gobreaker.State) {
	p.breakerState.WithLabelValues(p.service, operation).Set(float64(to))
}

// Outcome is "success", the failing stage, or "error" for unstaged failures.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	if stage := domain.StageOf(err); stage != "" {
		return stage
	}
	return "error"
}

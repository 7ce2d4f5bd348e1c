package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/intake/pkg/domain"
)

// Submit outcomes used as the "outcome" label.
const (
	OutcomeCreated = "created"
	OutcomeFailed  = "failed"
	OutcomeStale   = "stale"
)

// Metrics holds the wizard collectors.
type Metrics struct {
	StepVisits     *prometheus.CounterVec
	FieldChanges   *prometheus.CounterVec
	Submits        *prometheus.CounterVec
	SubmitResults  *prometheus.CounterVec
	SubmitDuration *prometheus.HistogramVec
	Cancels        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_step_visits_total",
				Help: "Total number of step entries",
			},
			[]string{"layout", "step"},
		),
		FieldChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_field_changes_total",
				Help: "Total number of answer writes",
			},
			[]string{"layout", "path"},
		),
		Submits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_submits_total",
				Help: "Total number of accepted submit attempts",
			},
			[]string{"layout"},
		),
		SubmitResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_submit_results_total",
				Help: "Project store responses by outcome",
			},
			[]string{"layout", "outcome"},
		),
		SubmitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_submit_duration_seconds",
				Help:    "Time from submit to project store response",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"layout"},
		),
		Cancels: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_cancels_total",
				Help: "Total number of cancelled wizards",
			},
			[]string{"layout"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.StepVisits, m.FieldChanges, m.Submits, m.SubmitResults, m.SubmitDuration, m.Cancels)
	}
	return m
}

// Hooks records every event in the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.StepVisits.WithLabelValues(e.Layout, strconv.Itoa(e.Step)).Inc()
		},
		OnFieldChange: func(_ context.Context, e *domain.FieldEvent) {
			m.FieldChanges.WithLabelValues(e.Layout, e.Path).Inc()
		},
		OnSubmit: func(_ context.Context, e *domain.SubmitEvent) {
			m.Submits.WithLabelValues(e.Layout).Inc()
		},
		OnSubmitResult: func(_ context.Context, e *domain.SubmitEvent) {
			m.SubmitResults.WithLabelValues(e.Layout, Outcome(e)).Inc()
			if !e.Stale {
				m.SubmitDuration.WithLabelValues(e.Layout).Observe(e.Duration.Seconds())
			}
		},
		OnCancel: func(_ context.Context, e *domain.EventBase) {
			m.Cancels.WithLabelValues(e.Layout).Inc()
		},
	}
}

// Outcome classifies a submit result.
func Outcome(e *domain.SubmitEvent) string {
	switch {
	case e.Stale:
		return OutcomeStale
	case e.IsError:
		return OutcomeFailed
	default:
		return OutcomeCreated
	}
}

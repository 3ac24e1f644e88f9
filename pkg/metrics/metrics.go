// Package metrics exposes Prometheus instrumentation for the engine's
// operator-facing signals. Rule execution failures are the important one:
// rules fail open, so a broken rule silently stops protecting its field and
// the counter here is the only place that failure remains visible.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values recorded for finished submissions.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics bundles the engine collectors. Construct with New, then attach to
// a registry via Register.
type Metrics struct {
	RuleFailures     *prometheus.CounterVec
	Submissions      *prometheus.CounterVec
	SubmitDuration   *prometheus.HistogramVec
	DuplicateSubmits *prometheus.CounterVec
}

// New creates the engine collectors, unregistered.
func New() *Metrics {
	return &Metrics{
		RuleFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formflow",
				Subsystem: "rules",
				Name:      "failures_total",
				Help:      "Validation rules that failed to compile or evaluate (fail-open path)",
			},
			[]string{"form", "field", "stage"},
		),

		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formflow",
				Subsystem: "submission",
				Name:      "finished_total",
				Help:      "Submissions by outcome (accepted, rejected, failed)",
			},
			[]string{"form", "outcome"},
		),

		SubmitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "formflow",
				Subsystem: "submission",
				Name:      "duration_seconds",
				Help:      "Time spent in the external submit collaborator",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"form"},
		),

		DuplicateSubmits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "formflow",
				Subsystem: "submission",
				Name:      "duplicates_total",
				Help:      "Submit attempts dropped by the re-entrancy guard",
			},
			[]string{"form"},
		),
	}
}

// Register attaches every collector to the supplied registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.RuleFailures,
		m.Submissions,
		m.SubmitDuration,
		m.DuplicateSubmits,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	return nil
}

// RuleFailed records a fail-open rule failure. Stage is one of "compile",
// "eval", or "result".
func (m *Metrics) RuleFailed(formID, fieldID, stage string) {
	m.RuleFailures.WithLabelValues(formID, fieldID, stage).Inc()
}

// SubmissionFinished records a submission outcome and, for outcomes that
// reached the collaborator, the time spent waiting on it.
func (m *Metrics) SubmissionFinished(formID, outcome string, elapsed time.Duration) {
	m.Submissions.WithLabelValues(formID, outcome).Inc()
	if outcome != OutcomeRejected {
		m.SubmitDuration.WithLabelValues(formID).Observe(elapsed.Seconds())
	}
}

// DuplicateSubmit counts a submit attempt dropped by the re-entrancy guard.
func (m *Metrics) DuplicateSubmit(formID string) {
	m.DuplicateSubmits.WithLabelValues(formID).Inc()
}

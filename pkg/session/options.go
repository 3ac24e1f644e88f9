package session

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-formflow/pkg/rules"
)

// DefaultDisplayWindow is how long a successful submission keeps the filled
// form and the success banner on screen before both clear.
const DefaultDisplayWindow = 5 * time.Second

// Observer receives submission lifecycle events. *metrics.Metrics satisfies
// both this and rules.Observer.
type Observer interface {
	SubmissionFinished(formID, outcome string, elapsed time.Duration)
	DuplicateSubmit(formID string)
}

// Option configures a Session.
type Option func(*config)

type config struct {
	submitter     Submitter
	window        time.Duration
	logger        *slog.Logger
	observer      Observer
	ruleObserver  rules.Observer
	initialValues map[string]string
}

// WithSubmitter wires the external submit collaborator.
func WithSubmitter(sub Submitter) Option {
	return func(c *config) {
		c.submitter = sub
	}
}

// WithDisplayWindow overrides the success display window. Tests shrink it;
// zero or negative durations are ignored.
func WithDisplayWindow(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.window = d
		}
	}
}

// WithLogger routes session logging to the supplied logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver wires submission metrics.
func WithObserver(obs Observer) Option {
	return func(c *config) {
		c.observer = obs
	}
}

// WithRuleObserver wires fail-open rule failure metrics into the session's
// validation engine.
func WithRuleObserver(obs rules.Observer) Option {
	return func(c *config) {
		c.ruleObserver = obs
	}
}

// WithInitialValues seeds the value store, keyed by field id. Values pass
// through the field formatters; input a formatter rejects is recorded as a
// field error and the value is dropped.
func WithInitialValues(values map[string]string) Option {
	return func(c *config) {
		c.initialValues = values
	}
}

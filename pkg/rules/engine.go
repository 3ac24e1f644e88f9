// Package rules evaluates the data-driven validation rules attached to a
// form. Rule predicates are CEL expressions compiled once when the engine is
// built and evaluated per value; they see the candidate value and a snapshot
// of the form's values, nothing else. Rules fail open: a rule that cannot be
// compiled or evaluated treats the field as valid, and the failure is pushed
// to the log and the observer instead of the user.
package rules

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Stages reported for fail-open rule failures.
const (
	StageCompile = "compile"
	StageEval    = "eval"
	StageResult  = "result"
)

// Observer receives fail-open rule failures. pkg/metrics implements it.
type Observer interface {
	RuleFailed(formID, fieldID, stage string)
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	observer  Observer
	costLimit uint64
}

// WithLogger routes fail-open reports to the supplied logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver wires an observer for fail-open rule failures.
func WithObserver(obs Observer) Option {
	return func(c *config) {
		c.observer = obs
	}
}

// WithCostLimit caps the evaluation cost of a single rule. The default is
// generous for field predicates; lower it when rules come from less trusted
// authors.
func WithCostLimit(limit uint64) Option {
	return func(c *config) {
		if limit > 0 {
			c.costLimit = limit
		}
	}
}

type compiledRule struct {
	rule schema.Rule
	prg  cel.Program // nil when the expression failed to compile
}

// Engine holds the compiled rule programs for one form.
type Engine struct {
	form     schema.Form
	programs map[string][]compiledRule
	logger   *slog.Logger
	observer Observer
}

// NewEngine compiles the form's rules. Expressions see two declarations:
// "value", the formatted candidate value, and "values", the full value-store
// snapshot keyed by store key. A rule that fails to compile is reported and
// skipped; it never blocks form load.
func NewEngine(form schema.Form, opts ...Option) (*Engine, error) {
	cfg := config{
		logger:    slog.Default(),
		costLimit: 100000,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	env, err := cel.NewEnv(
		cel.Variable("value", cel.StringType),
		cel.Variable("values", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("rules: create evaluation environment: %w", err)
	}

	eng := &Engine{
		form:     form,
		programs: make(map[string][]compiledRule),
		logger:   cfg.logger,
		observer: cfg.observer,
	}

	for _, rule := range form.Rules {
		ast, iss := env.Compile(rule.Expression)
		if iss != nil && iss.Err() != nil {
			eng.reportFailure(rule, StageCompile, iss.Err())
			eng.programs[rule.FieldID] = append(eng.programs[rule.FieldID], compiledRule{rule: rule})
			continue
		}
		prg, err := env.Program(ast,
			cel.InterruptCheckFrequency(100),
			cel.CostLimit(cfg.costLimit),
		)
		if err != nil {
			eng.reportFailure(rule, StageCompile, err)
			eng.programs[rule.FieldID] = append(eng.programs[rule.FieldID], compiledRule{rule: rule})
			continue
		}
		eng.programs[rule.FieldID] = append(eng.programs[rule.FieldID], compiledRule{rule: rule, prg: prg})
	}

	return eng, nil
}

// ValidateField runs the rules bound to fieldID against the candidate value.
// Fields with no rules are always valid. Rules run in the order supplied;
// the first predicate that evaluates to false short-circuits and its message
// is returned. Rules that error are fail-open: the field stays valid and the
// failure is reported once per evaluation.
func (e *Engine) ValidateField(fieldID, value string, values schema.FormValues) string {
	compiled := e.programs[fieldID]
	if len(compiled) == 0 {
		return ""
	}

	input := map[string]any{
		"value":  value,
		"values": map[string]string(values),
	}

	for _, cr := range compiled {
		if cr.prg == nil {
			// Compile failure already reported at engine build.
			continue
		}
		out, _, err := cr.prg.Eval(input)
		if err != nil {
			e.reportFailure(cr.rule, StageEval, err)
			continue
		}
		ok, isBool := out.Value().(bool)
		if !isBool {
			e.reportFailure(cr.rule, StageResult, fmt.Errorf("expression returned %T, want bool", out.Value()))
			continue
		}
		if !ok {
			return cr.rule.Message()
		}
	}
	return ""
}

// ValidateForm checks every field of the form against the supplied values
// and returns the full error map; it never short-circuits across fields.
// Fields are visited in declaration order, so the report order matches the
// render order. A required field with a blank value fails with
// "<label> is required" before any rules run; rules on optional fields only
// run when the field holds a value.
func (e *Engine) ValidateForm(values schema.FormValues) schema.ErrorMap {
	errs := make(schema.ErrorMap)
	for _, field := range e.form.Fields {
		value := values[schema.StoreKey(field.ID)]
		blank := strings.TrimSpace(value) == ""
		if field.Required && blank {
			errs[field.ID] = field.Label + " is required"
			continue
		}
		if blank {
			continue
		}
		if msg := e.ValidateField(field.ID, value, values); msg != "" {
			errs[field.ID] = msg
		}
	}
	return errs
}

// RuleCount reports how many rules target the given field, counting rules
// that failed to compile. Renderers use it to mark rule-backed fields.
func (e *Engine) RuleCount(fieldID string) int {
	return len(e.programs[fieldID])
}

func (e *Engine) reportFailure(rule schema.Rule, stage string, err error) {
	rerr := &RuleError{
		FieldID: rule.FieldID,
		Rule:    ruleName(rule),
		Stage:   stage,
		Err:     err,
	}
	e.logger.Warn("validation rule failed open",
		"form", e.form.ID,
		"field", rerr.FieldID,
		"rule", rerr.Rule,
		"stage", stage,
		"error", err,
	)
	if e.observer != nil {
		e.observer.RuleFailed(e.form.ID, rule.FieldID, stage)
	}
}

func ruleName(rule schema.Rule) string {
	if rule.Name != "" {
		return rule.Name
	}
	expr := rule.Expression
	if len(expr) > 40 {
		expr = expr[:40] + "..."
	}
	return expr
}

package rules

import "fmt"

// RuleError describes a rule that failed to compile or evaluate. It flows to
// logs and observers only; the end user never sees it, because rule failures
// are fail-open by contract.
type RuleError struct {
	FieldID string
	Rule    string
	Stage   string
	Err     error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rules: field %q: rule %q failed at %s: %v", e.FieldID, e.Rule, e.Stage, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

package render

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Control names the shipped renderers understand.
const (
	ControlTextInput     = "text-input"
	ControlEmailInput    = "email-input"
	ControlDateInput     = "date-input"
	ControlTelInput      = "tel-input"
	ControlAmountInput   = "amount-input"
	ControlSelect        = "select"
	ControlCheckbox      = "checkbox"
	ControlCheckboxGroup = "checkbox-group"
	ControlFilePicker    = "file-picker"
	ControlRichText      = "richtext-editor"
)

// Matcher decides whether a control should handle the supplied field.
type Matcher func(field schema.Field) bool

type controlRule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Controls selects the control for each field based on explicit metadata or
// registered matchers. Higher priority wins; ties fall back to registration
// order.
type Controls struct {
	mu    sync.RWMutex
	rules []controlRule
}

// NewControls constructs a registry with the built-in control matchers.
func NewControls() *Controls {
	c := &Controls{}
	c.registerBuiltins()
	return c
}

// Register adds a control matcher. Higher priority values take precedence
// over the builtins, which sit at priority 0.
func (c *Controls) Register(name string, priority int, match Matcher) {
	if c == nil || match == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rules = append(c.rules, controlRule{
		name:     trimmed,
		priority: priority,
		match:    match,
		order:    len(c.rules),
	})
}

// Resolve returns the control name for a field. A "control" metadata entry on
// the field is honoured before matcher evaluation.
func (c *Controls) Resolve(field schema.Field) (string, bool) {
	if field.Metadata != nil {
		if explicit := strings.TrimSpace(field.Metadata["control"]); explicit != "" {
			return explicit, true
		}
	}
	if c == nil {
		return "", false
	}

	c.mu.RLock()
	rules := append([]controlRule(nil), c.rules...)
	c.mu.RUnlock()
	if len(rules) == 0 {
		return "", false
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

func (c *Controls) registerBuiltins() {
	typed := func(name string, ft schema.FieldType) {
		c.Register(name, 0, func(field schema.Field) bool {
			return field.Type == ft
		})
	}
	typed(ControlEmailInput, schema.FieldTypeEmail)
	typed(ControlDateInput, schema.FieldTypeDate)
	typed(ControlTelInput, schema.FieldTypePhone)
	typed(ControlAmountInput, schema.FieldTypeCurrency)
	typed(ControlSelect, schema.FieldTypeSelect)
	typed(ControlCheckbox, schema.FieldTypeCheckbox)
	typed(ControlCheckboxGroup, schema.FieldTypeMultiCheckbox)
	typed(ControlFilePicker, schema.FieldTypeFile)
	typed(ControlRichText, schema.FieldTypeRichText)
	typed(ControlTextInput, schema.FieldTypeText)
}

package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType enumerates the field kinds a form document may declare.
type FieldType string

const (
	FieldTypeText          FieldType = "text"
	FieldTypeEmail         FieldType = "email"
	FieldTypeDate          FieldType = "date"
	FieldTypeSelect        FieldType = "select"
	FieldTypeFile          FieldType = "file"
	FieldTypeCheckbox      FieldType = "checkbox"
	FieldTypeMultiCheckbox FieldType = "multi-checkbox"
	FieldTypeRichText      FieldType = "richtext"
	FieldTypePhone         FieldType = "phone"
	FieldTypeCurrency      FieldType = "currency"
)

var fieldTypes = map[FieldType]struct{}{
	FieldTypeText:          {},
	FieldTypeEmail:         {},
	FieldTypeDate:          {},
	FieldTypeSelect:        {},
	FieldTypeFile:          {},
	FieldTypeCheckbox:      {},
	FieldTypeMultiCheckbox: {},
	FieldTypeRichText:      {},
	FieldTypePhone:         {},
	FieldTypeCurrency:      {},
}

// ParseFieldType normalizes and validates a wire-level type string.
func ParseFieldType(raw string) (FieldType, bool) {
	ft := FieldType(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := fieldTypes[ft]
	return ft, ok
}

// Field describes one input in a form. Fields are immutable once a form is
// loaded; their slice order defines render order, tab order, and the order in
// which full-form validation reports errors.
type Field struct {
	ID          string            `json:"id" yaml:"id"`
	Type        FieldType         `json:"type" yaml:"type"`
	Label       string            `json:"label" yaml:"label"`
	Caption     string            `json:"caption,omitempty" yaml:"caption,omitempty"`
	Options     []string          `json:"options,omitempty" yaml:"options,omitempty"`
	Required    bool              `json:"required" yaml:"required"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Rule is a data-driven validation predicate bound to a single field.
// Expression holds a boolean expression evaluated against the field value;
// Prompt (falling back to Description) is shown when the predicate fails.
type Rule struct {
	FieldID     string `json:"field_id" yaml:"field_id"`
	Expression  string `json:"expression" yaml:"expression"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Prompt      string `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Message returns the text reported when the rule fails.
func (r Rule) Message() string {
	if msg := strings.TrimSpace(r.Prompt); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(r.Description); msg != "" {
		return msg
	}
	return "Invalid input"
}

// Form is the loaded, read-only description of one form: an ordered field
// list plus the validation rules bound to those fields.
type Form struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
	Rules  []Rule  `json:"rules,omitempty" yaml:"rules,omitempty"`

	keyIndex map[string]string
}

// NewForm assembles a Form from already-built fields: it rejects blank,
// duplicate, or colliding field ids, validates the field types, and builds
// the store-key index. Documents are normally loaded with ParseForm; NewForm
// serves programmatic construction such as the OpenAPI importer.
func NewForm(id, title string, fields []Field) (Form, error) {
	form := Form{
		ID:     strings.TrimSpace(id),
		Title:  strings.TrimSpace(title),
		Fields: append([]Field(nil), fields...),
	}

	seen := make(map[string]string, len(form.Fields))
	for _, fd := range form.Fields {
		if strings.TrimSpace(fd.ID) == "" {
			return Form{}, &SchemaError{Reason: "field missing id"}
		}
		if _, ok := fieldTypes[fd.Type]; !ok {
			return Form{}, &SchemaError{Field: fd.ID, Reason: "unknown field type " + strconv.Quote(string(fd.Type))}
		}
		key := StoreKey(fd.ID)
		if prev, dup := seen[key]; dup {
			reason := "duplicate field id"
			if prev != fd.ID {
				reason = fmt.Sprintf("id collides with %q after key normalization", prev)
			}
			return Form{}, &SchemaError{Field: fd.ID, Reason: reason}
		}
		seen[key] = fd.ID
	}

	form.buildKeyIndex()
	return form, nil
}

// Field returns the descriptor with the given id.
func (f Form) Field(id string) (Field, bool) {
	for _, fd := range f.Fields {
		if fd.ID == id {
			return fd, true
		}
	}
	return Field{}, false
}

// FieldIDs returns the field identifiers in declaration order.
func (f Form) FieldIDs() []string {
	ids := make([]string, len(f.Fields))
	for i, fd := range f.Fields {
		ids[i] = fd.ID
	}
	return ids
}

// RulesFor returns the rules targeting the given field, in the order they
// were supplied. Fields without rules return an empty slice.
func (f Form) RulesFor(fieldID string) []Rule {
	var out []Rule
	for _, r := range f.Rules {
		if r.FieldID == fieldID {
			out = append(out, r)
		}
	}
	return out
}

// AttachRules validates the supplied rules against the form's fields and
// replaces any rules already attached. A rule naming an unknown field is a
// schema error.
func (f *Form) AttachRules(rules []Rule) error {
	for _, r := range rules {
		if _, ok := f.Field(r.FieldID); !ok {
			return &SchemaError{Field: r.FieldID, Reason: "rule targets unknown field"}
		}
	}
	f.Rules = append([]Rule(nil), rules...)
	return nil
}

// FormValues maps store keys (field ids with separators normalized, see
// StoreKey) to the formatted value for that field. Only keys derived from a
// loaded field id are ever written.
type FormValues map[string]string

// Clone returns a defensive copy.
func (v FormValues) Clone() FormValues {
	out := make(FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// ErrorMap maps field ids (hyphenated form) to a non-empty, human readable
// error message. Absence of a key means the field has no current error.
type ErrorMap map[string]string

// Clone returns a defensive copy.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for k, val := range m {
		out[k] = val
	}
	return out
}

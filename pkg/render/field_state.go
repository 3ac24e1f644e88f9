package render

import (
	"github.com/goliatone/go-formflow/pkg/format"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// controlIDPrefix namespaces generated element ids so embedding pages do not
// collide with them.
const controlIDPrefix = "ff-"

// FieldState is one field's render-ready state: the descriptor plus the
// session's current value, error, and preview for it.
type FieldState struct {
	Field   schema.Field
	Value   string
	Error   string
	Preview string
}

// ControlID returns the DOM/element identifier for the field's control.
func (f FieldState) ControlID() string {
	return controlIDPrefix + f.Field.ID
}

// Invalid reports whether the field currently carries an error.
func (f FieldState) Invalid() bool {
	return f.Error != ""
}

// Filled reports whether the field holds a non-empty value.
func (f FieldState) Filled() bool {
	return f.Value != ""
}

// Checked reports whether the option is part of a multi-checkbox value.
func (f FieldState) Checked(option string) bool {
	return format.HasOption(f.Value, option)
}

// Selected reports whether the option is the current select value.
func (f FieldState) Selected(option string) bool {
	return f.Value == option
}

// On reports whether a single checkbox field is set.
func (f FieldState) On() bool {
	return f.Value == "true" || f.Value == "on"
}

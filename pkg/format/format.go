// Package format holds the pure, stateless transforms applied to raw field
// input before it reaches the value store. Formatters never mutate shared
// state; failures are reported as *FormatError and recovered by the store as
// field-level errors.
package format

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// FormatError reports raw input a formatter cannot coerce. It is recovered
// locally as a field-level error and never propagates past the formatter
// boundary.
type FormatError struct {
	Field  string
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("format: field %q: %s", e.Field, e.Reason)
	}
	return "format: " + e.Reason
}

// Apply runs the transform for the field's type over raw input. Types without
// a dedicated formatter pass through unchanged. Multi-checkbox, file, and
// rich-text fields are edited through their own operations (ToggleOption,
// EncodeFile, RichText); Apply treats their values as opaque passthrough.
func Apply(field schema.Field, raw string) (string, error) {
	switch field.Type {
	case schema.FieldTypePhone:
		return Phone(raw), nil
	case schema.FieldTypeCurrency:
		formatted, err := Currency(raw)
		if err != nil {
			var ferr *FormatError
			if errors.As(err, &ferr) && ferr.Field == "" {
				ferr.Field = field.ID
			}
			return "", err
		}
		return formatted, nil
	default:
		return raw, nil
	}
}

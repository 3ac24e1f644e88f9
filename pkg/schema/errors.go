package schema

import "fmt"

// SchemaError reports a malformed or ambiguous form document. It is fatal to
// form load and surfaced to the host application; the engine never recovers
// from it.
type SchemaError struct {
	Source string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Field != "" && e.Source != "":
		return fmt.Sprintf("schema: %s: field %q: %s", e.Source, e.Field, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Reason)
	case e.Source != "":
		return fmt.Sprintf("schema: %s: %s", e.Source, e.Reason)
	default:
		return "schema: " + e.Reason
	}
}

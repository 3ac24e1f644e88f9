package render

import (
	"fmt"
	"strings"
)

// Options describe per-request data renderers can use to customise their
// output without touching the session.
type Options struct {
	// Method and Action describe the emitted form element for markup
	// renderers. Renderers translate non-browser verbs (PATCH/PUT/DELETE)
	// into POST plus a hidden _method input.
	Method string

	// Action is the submit endpoint for markup renderers.
	Action string

	// Theme selects a named theme; Variant picks its light/dark variant.
	// Renderers without theming ignore both.
	Theme   string
	Variant string

	// Hidden carries extra hidden inputs (CSRF tokens, version fields)
	// emitted alongside the visible controls.
	Hidden []HiddenField
}

// HiddenField is a hidden form input emitted alongside the visible controls.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name their backend expects ("_csrf", "csrf_token").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField constructs a hidden field for optimistic locking or
// version-aware submissions.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// HiddenFields returns the options' hidden inputs with blank names dropped;
// later fields win on name collisions while first-seen order is kept.
func (o Options) HiddenFields() []HiddenField {
	if len(o.Hidden) == 0 {
		return nil
	}
	index := make(map[string]int, len(o.Hidden))
	out := make([]HiddenField, 0, len(o.Hidden))
	for _, field := range o.Hidden {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		if at, seen := index[name]; seen {
			out[at].Value = field.Value
			continue
		}
		index[name] = len(out)
		out = append(out, HiddenField{Name: name, Value: field.Value})
	}
	return out
}

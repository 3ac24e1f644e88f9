// Package render defines the thin contract between a form session and its
// render targets. A renderer receives a read-only view of the session (fields,
// values, errors, status) and produces bytes; all mutation flows back through
// the session's own methods.
package render

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// Renderer converts a session view into a byte representation (HTML, text
// for terminals, JSON for APIs).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options Options) ([]byte, error)
}

// View is the complete read surface a renderer needs. Values are keyed by
// store key, errors and previews by field id, mirroring what the session
// exposes.
type View struct {
	Form     schema.Form
	Values   schema.FormValues
	Errors   schema.ErrorMap
	Status   session.Status
	State    session.State
	Previews map[string]string
}

// Snapshot captures the session's current state as a View. Each part is read
// under the session's lock; a view is one UI frame, not a transaction, so
// callers that edit concurrently should snapshot after their edits settle.
func Snapshot(s *session.Session) View {
	form := s.Form()
	view := View{
		Form:   form,
		Values: s.Values(),
		Errors: s.Errors(),
		Status: s.Status(),
		State:  s.State(),
	}
	for _, fd := range form.Fields {
		if fd.Type != schema.FieldTypeFile {
			continue
		}
		if url := s.PreviewURL(fd.ID); url != "" {
			if view.Previews == nil {
				view.Previews = make(map[string]string)
			}
			view.Previews[fd.ID] = url
		}
	}
	return view
}

// FieldStates pairs every field with its current value, error, and preview,
// in declaration order.
func (v View) FieldStates() []FieldState {
	out := make([]FieldState, len(v.Form.Fields))
	for i, fd := range v.Form.Fields {
		out[i] = FieldState{
			Field:   fd,
			Value:   v.Values[schema.StoreKey(fd.ID)],
			Error:   v.Errors[fd.ID],
			Preview: v.Previews[fd.ID],
		}
	}
	return out
}

// HasErrors reports whether any field carries an error.
func (v View) HasErrors() bool {
	return len(v.Errors) > 0
}

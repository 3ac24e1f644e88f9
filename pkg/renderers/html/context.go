package html

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/format"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// Context payloads cross into the template engine through a JSON round-trip,
// so templates address everything by the json tag names below.

type formContext struct {
	ID         string        `json:"id"`
	Title      string        `json:"title,omitempty"`
	Method     string        `json:"method"`
	Action     string        `json:"action"`
	Multipart  bool          `json:"multipart"`
	State      string        `json:"state"`
	Submitting bool          `json:"submitting"`
	Hidden     []hiddenInput `json:"hidden"`
}

type hiddenInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type statusContext struct {
	Kind    string `json:"kind"`
	Message string `json:"message,omitempty"`
	Visible bool   `json:"visible"`
}

type fieldContext struct {
	ID          string          `json:"id"`
	ControlID   string          `json:"control_id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Control     string          `json:"control"`
	InputType   string          `json:"input_type"`
	Label       string          `json:"label"`
	Caption     string          `json:"caption,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Required    bool            `json:"required"`
	Value       string          `json:"value"`
	Markup      string          `json:"markup,omitempty"`
	Error       string          `json:"error,omitempty"`
	Invalid     bool            `json:"invalid"`
	Filled      bool            `json:"filled"`
	Checked     bool            `json:"checked"`
	Preview     string          `json:"preview,omitempty"`
	Options     []optionContext `json:"options"`
	Classes     string          `json:"classes"`
}

type optionContext struct {
	InputID  string `json:"input_id"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
	Checked  bool   `json:"checked"`
}

func buildFormContext(view render.View, options render.Options) formContext {
	method, override := formMethod(options.Method)

	hidden := make([]hiddenInput, 0, len(options.Hidden)+1)
	if override != "" {
		hidden = append(hidden, hiddenInput{Name: "_method", Value: override})
	}
	for _, field := range options.HiddenFields() {
		hidden = append(hidden, hiddenInput{Name: field.Name, Value: field.Value})
	}

	return formContext{
		ID:         view.Form.ID,
		Title:      view.Form.Title,
		Method:     method,
		Action:     options.Action,
		Multipart:  hasFileField(view.Form),
		State:      string(view.State),
		Submitting: view.State == session.StateSubmitting,
		Hidden:     hidden,
	}
}

// formMethod maps the requested verb to what a browser form can carry. Verbs
// beyond GET/POST downgrade to POST plus a hidden _method input.
func formMethod(raw string) (method, override string) {
	verb := strings.ToUpper(strings.TrimSpace(raw))
	switch verb {
	case "", "POST":
		return "POST", ""
	case "GET":
		return "GET", ""
	default:
		return "POST", verb
	}
}

func hasFileField(form schema.Form) bool {
	for _, fd := range form.Fields {
		if fd.Type == schema.FieldTypeFile {
			return true
		}
	}
	return false
}

func buildStatusContext(view render.View) statusContext {
	kind := view.Status.Kind
	if kind == "" {
		kind = session.StatusNone
	}
	return statusContext{
		Kind:    string(kind),
		Message: view.Status.Message,
		Visible: kind != session.StatusNone && view.Status.Message != "",
	}
}

func buildFieldContexts(view render.View, controls *render.Controls) []fieldContext {
	states := view.FieldStates()
	out := make([]fieldContext, 0, len(states))
	for _, state := range states {
		out = append(out, buildFieldContext(state, controls))
	}
	return out
}

func buildFieldContext(state render.FieldState, controls *render.Controls) fieldContext {
	fd := state.Field
	control, _ := controls.Resolve(fd)
	if control == "" {
		control = render.ControlTextInput
	}

	ctx := fieldContext{
		ID:          fd.ID,
		ControlID:   state.ControlID(),
		Name:        schema.StoreKey(fd.ID),
		Type:        string(fd.Type),
		Control:     control,
		InputType:   inputType(control),
		Label:       fd.Label,
		Caption:     fd.Caption,
		Placeholder: fd.Placeholder,
		Required:    fd.Required,
		Value:       state.Value,
		Error:       state.Error,
		Invalid:     state.Invalid(),
		Filled:      state.Filled(),
		Checked:     state.On(),
		Preview:     state.Preview,
		Options:     buildOptionContexts(state),
		Classes:     fieldClasses(state, control),
	}
	if fd.Type == schema.FieldTypeRichText {
		ctx.Markup = format.SanitizeMarkup(state.Value)
	}
	return ctx
}

func buildOptionContexts(state render.FieldState) []optionContext {
	out := make([]optionContext, 0, len(state.Field.Options))
	for i, option := range state.Field.Options {
		out = append(out, optionContext{
			InputID:  fmt.Sprintf("%s-%d", state.ControlID(), i),
			Value:    option,
			Selected: state.Selected(option),
			Checked:  state.Checked(option),
		})
	}
	return out
}

func fieldClasses(state render.FieldState, control string) string {
	classes := []string{string(ClassField), string(ClassField) + "-" + control}
	if state.Invalid() {
		classes = append(classes, string(ClassInvalid))
	}
	if state.Filled() {
		classes = append(classes, string(ClassFilled))
	}
	return strings.Join(classes, " ")
}

// inputType picks the <input type> attribute for input-backed controls.
// Unknown controls fall back to a text input so custom registrations degrade
// gracefully.
func inputType(control string) string {
	switch control {
	case render.ControlEmailInput:
		return "email"
	case render.ControlDateInput:
		return "date"
	case render.ControlTelInput:
		return "tel"
	default:
		return "text"
	}
}

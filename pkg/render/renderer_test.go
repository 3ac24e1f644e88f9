package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

func viewForm(t *testing.T) schema.Form {
	t.Helper()
	form, err := schema.NewForm("visa-application", "Visa Application Form", []schema.Field{
		{ID: "full-name", Type: schema.FieldTypeText, Label: "Full Name", Required: true},
		{ID: "application-fee", Type: schema.FieldTypeCurrency, Label: "Application Fee"},
		{ID: "languages", Type: schema.FieldTypeMultiCheckbox, Label: "Languages", Options: []string{"A", "B"}},
		{ID: "photo", Type: schema.FieldTypeFile, Label: "Photo"},
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return form
}

func TestSnapshotCapturesSessionState(t *testing.T) {
	s, err := session.New(viewForm(t))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer s.Close()

	if err := s.Set("full-name", "Jane Doe"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("application-fee", "not-a-number"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetFile("photo", "me.png", "image/png", []byte{1}); err != nil {
		t.Fatalf("set file: %v", err)
	}

	view := render.Snapshot(s)

	states := view.FieldStates()
	ids := make([]string, len(states))
	for i, st := range states {
		ids[i] = st.Field.ID
	}
	if diff := cmp.Diff([]string{"full-name", "application-fee", "languages", "photo"}, ids); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	name := states[0]
	if name.Value != "Jane Doe" || !name.Filled() || name.Invalid() {
		t.Fatalf("full-name state = %+v", name)
	}
	if name.ControlID() != "ff-full-name" {
		t.Fatalf("control id = %q", name.ControlID())
	}

	fee := states[1]
	if !fee.Invalid() || fee.Filled() {
		t.Fatalf("application-fee state = %+v", fee)
	}

	photo := states[3]
	if photo.Preview == "" {
		t.Fatalf("photo preview missing")
	}
	if !view.HasErrors() {
		t.Fatalf("view should report errors")
	}
}

func TestFieldStateOptionHelpers(t *testing.T) {
	multi := render.FieldState{
		Field: schema.Field{ID: "languages", Type: schema.FieldTypeMultiCheckbox},
		Value: "A, C",
	}
	if !multi.Checked("A") || multi.Checked("B") || !multi.Checked("C") {
		t.Fatalf("checked lookup wrong for %q", multi.Value)
	}

	sel := render.FieldState{
		Field: schema.Field{ID: "visa-type", Type: schema.FieldTypeSelect},
		Value: "Tourist",
	}
	if !sel.Selected("Tourist") || sel.Selected("Business") {
		t.Fatalf("selected lookup wrong for %q", sel.Value)
	}

	box := render.FieldState{
		Field: schema.Field{ID: "agree", Type: schema.FieldTypeCheckbox},
		Value: "true",
	}
	if !box.On() {
		t.Fatalf("checkbox should be on")
	}
}

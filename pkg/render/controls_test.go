package render_test

import (
	"testing"

	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schema"
)

func TestControlsResolveBuiltins(t *testing.T) {
	controls := render.NewControls()

	cases := []struct {
		fieldType schema.FieldType
		want      string
	}{
		{schema.FieldTypeText, render.ControlTextInput},
		{schema.FieldTypeEmail, render.ControlEmailInput},
		{schema.FieldTypeDate, render.ControlDateInput},
		{schema.FieldTypePhone, render.ControlTelInput},
		{schema.FieldTypeCurrency, render.ControlAmountInput},
		{schema.FieldTypeSelect, render.ControlSelect},
		{schema.FieldTypeCheckbox, render.ControlCheckbox},
		{schema.FieldTypeMultiCheckbox, render.ControlCheckboxGroup},
		{schema.FieldTypeFile, render.ControlFilePicker},
		{schema.FieldTypeRichText, render.ControlRichText},
	}
	for _, tc := range cases {
		got, ok := controls.Resolve(schema.Field{ID: "f", Type: tc.fieldType})
		if !ok {
			t.Errorf("type %q: no control resolved", tc.fieldType)
			continue
		}
		if got != tc.want {
			t.Errorf("type %q resolved %q, want %q", tc.fieldType, got, tc.want)
		}
	}
}

func TestControlsExplicitMetadataWins(t *testing.T) {
	controls := render.NewControls()

	field := schema.Field{
		ID:       "country",
		Type:     schema.FieldTypeSelect,
		Metadata: map[string]string{"control": "country-picker"},
	}
	got, ok := controls.Resolve(field)
	if !ok || got != "country-picker" {
		t.Fatalf("resolved %q, %v", got, ok)
	}
}

func TestControlsCustomMatcherPriority(t *testing.T) {
	controls := render.NewControls()
	controls.Register("signature-pad", 10, func(field schema.Field) bool {
		return field.Type == schema.FieldTypeFile && field.ID == "signature"
	})

	got, ok := controls.Resolve(schema.Field{ID: "signature", Type: schema.FieldTypeFile})
	if !ok || got != "signature-pad" {
		t.Fatalf("resolved %q, %v", got, ok)
	}

	// Other file fields still use the builtin.
	got, ok = controls.Resolve(schema.Field{ID: "photo", Type: schema.FieldTypeFile})
	if !ok || got != render.ControlFilePicker {
		t.Fatalf("resolved %q, %v", got, ok)
	}
}

func TestControlsUnknownType(t *testing.T) {
	controls := render.NewControls()
	if name, ok := controls.Resolve(schema.Field{ID: "x", Type: "mystery"}); ok {
		t.Fatalf("unexpected control %q", name)
	}
}

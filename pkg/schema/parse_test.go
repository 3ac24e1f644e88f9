package schema_test

import (
	"errors"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

const visaFormJSON = `{
  "id": "visa-application",
  "title": "Visa Application Form",
  "fields": [
    {"id": "full-name", "type": "text", "label": "Full Name", "required": true},
    {"id": "email", "type": "email", "label": "Email", "required": true},
    {"id": "date-of-birth", "type": "date", "label": "Date of Birth"},
    {"id": "visa-type", "type": "select", "label": "Visa Type", "options": ["Tourist", "Business", "Student"]},
    {"id": "phone", "type": "phone", "label": "Phone"},
    {"id": "application-fee", "type": "currency", "label": "Application Fee"}
  ]
}`

func TestParseFormPreservesFieldOrder(t *testing.T) {
	doc := schema.MustNewDocument(schema.SourceFromFile("visa.json"), []byte(visaFormJSON))

	form, err := schema.ParseForm(doc)
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}

	want := []string{"full-name", "email", "date-of-birth", "visa-type", "phone", "application-fee"}
	if diff := cmp.Diff(want, form.FieldIDs()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	// Round-trip: serializing the parsed fields and parsing again must keep
	// the same order.
	raw, err := json.Marshal(form.Fields)
	if err != nil {
		t.Fatalf("marshal fields: %v", err)
	}
	again, err := schema.ParseForm(schema.MustNewDocument(schema.SourceFromFS("roundtrip.json"), raw))
	if err != nil {
		t.Fatalf("reparse form: %v", err)
	}
	if diff := cmp.Diff(form.FieldIDs(), again.FieldIDs()); diff != "" {
		t.Fatalf("round-trip order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFormAcceptsBareFieldArray(t *testing.T) {
	raw := []byte(`[{"id": "full-name", "type": "text", "label": "Full Name"}]`)
	form, err := schema.ParseForm(schema.MustNewDocument(schema.SourceFromFS("bare.json"), raw))
	if err != nil {
		t.Fatalf("parse bare array: %v", err)
	}
	if len(form.Fields) != 1 || form.Fields[0].ID != "full-name" {
		t.Fatalf("unexpected fields: %+v", form.Fields)
	}
}

func TestParseFormYAML(t *testing.T) {
	raw := []byte(`
title: Visa Application Form
fields:
  - id: full-name
    type: text
    label: Full Name
    required: true
  - id: visa-type
    type: select
    label: Visa Type
    options: [Tourist, Business]
`)
	form, err := schema.ParseForm(schema.MustNewDocument(schema.SourceFromFS("visa.yaml"), raw))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}

	want := schema.Field{
		ID:      "visa-type",
		Type:    schema.FieldTypeSelect,
		Label:   "Visa Type",
		Options: []string{"Tourist", "Business"},
	}
	got, ok := form.Field("visa-type")
	if !ok {
		t.Fatalf("visa-type not found")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
}

func TestParseShippedVisaFixtures(t *testing.T) {
	form := testsupport.MustParseForm(t, filepath.Join("..", "..", "examples", "visa", "testdata", "visa-form.json"))
	if form.ID != "visa-application" {
		t.Fatalf("form id = %q, want visa-application", form.ID)
	}
	if len(form.Fields) != 13 {
		t.Fatalf("got %d fields, want 13", len(form.Fields))
	}
	if form.Fields[0].ID != "full-name" || form.Fields[12].ID != "additional-notes" {
		t.Fatalf("field order changed: %v", form.FieldIDs())
	}

	doc := testsupport.LoadDocument(t, filepath.Join("..", "..", "examples", "visa", "testdata", "visa-rules.json"))
	rules, err := schema.ParseRules(doc)
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(rules))
	}
	if err := form.AttachRules(rules); err != nil {
		t.Fatalf("attach rules: %v", err)
	}
	if got := len(form.RulesFor("email")); got != 1 {
		t.Fatalf("email rules = %d, want 1", got)
	}
}

func TestParseFormRejectsMalformedDescriptors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "missing id", raw: `[{"type": "text", "label": "X"}]`},
		{name: "missing type", raw: `[{"id": "a", "label": "X"}]`},
		{name: "missing label", raw: `[{"id": "a", "type": "text"}]`},
		{name: "unknown type", raw: `[{"id": "a", "type": "slider", "label": "X"}]`},
		{name: "duplicate ids", raw: `[{"id": "a", "type": "text", "label": "X"}, {"id": "a", "type": "text", "label": "Y"}]`},
		{name: "colliding store keys", raw: `[{"id": "a-b", "type": "text", "label": "X"}, {"id": "a_b", "type": "text", "label": "Y"}]`},
		{name: "no fields", raw: `{"title": "empty"}`},
		{name: "not a document", raw: `12`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := schema.MustNewDocument(schema.SourceFromFS(tc.name), []byte(tc.raw))
			_, err := schema.ParseForm(doc)
			if err == nil {
				t.Fatalf("expected schema error")
			}
			var serr *schema.SchemaError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *SchemaError, got %T: %v", err, err)
			}
		})
	}
}

func TestParseRules(t *testing.T) {
	raw := []byte(`[
		{"field_id": "passport-number", "generated_code": "value.size() >= 6", "prompt": "Passport number must be at least 6 characters"},
		{"field_id": "email", "expression": "value.contains(\"@\")", "description": "Must be a valid email"}
	]`)
	rules, err := schema.ParseRules(schema.MustNewDocument(schema.SourceFromFS("rules.json"), raw))
	if err != nil {
		t.Fatalf("parse rules: %v", err)
	}

	want := []schema.Rule{
		{FieldID: "passport-number", Expression: "value.size() >= 6", Prompt: "Passport number must be at least 6 characters"},
		{FieldID: "email", Expression: `value.contains("@")`, Description: "Must be a valid email"},
	}
	if diff := cmp.Diff(want, rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRulesRejectsIncompleteRecords(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "missing field_id", raw: `[{"expression": "true"}]`},
		{name: "missing expression", raw: `[{"field_id": "a", "prompt": "nope"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := schema.ParseRules(schema.MustNewDocument(schema.SourceFromFS(tc.name), []byte(tc.raw)))
			var serr *schema.SchemaError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *SchemaError, got %v", err)
			}
		})
	}
}

func TestAttachRulesRejectsUnknownField(t *testing.T) {
	form, err := schema.ParseForm(schema.MustNewDocument(schema.SourceFromFS("visa.json"), []byte(visaFormJSON)))
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}

	err = form.AttachRules([]schema.Rule{{FieldID: "nope", Expression: "true"}})
	var serr *schema.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
}

func TestRuleMessageFallbacks(t *testing.T) {
	cases := []struct {
		name string
		rule schema.Rule
		want string
	}{
		{name: "prompt wins", rule: schema.Rule{Prompt: "Use a real email", Description: "desc"}, want: "Use a real email"},
		{name: "description fallback", rule: schema.Rule{Description: "Must match format"}, want: "Must match format"},
		{name: "generic fallback", rule: schema.Rule{}, want: "Invalid input"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.rule.Message(); got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStoreKeyRoundTrip(t *testing.T) {
	raw := []byte(`[
		{"id": "full-name", "type": "text", "label": "Full Name"},
		{"id": "tax_code", "type": "text", "label": "Tax Code"}
	]`)
	form, err := schema.ParseForm(schema.MustNewDocument(schema.SourceFromFS("keys.json"), raw))
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}

	if got := schema.StoreKey("full-name"); got != "full_name" {
		t.Fatalf("store key = %q, want full_name", got)
	}

	// Hyphenated ids and ids with literal underscores both resolve back.
	for _, id := range []string{"full-name", "tax_code"} {
		resolved, ok := form.FieldIDForKey(schema.StoreKey(id))
		if !ok || resolved != id {
			t.Fatalf("FieldIDForKey(%q) = %q, %v; want %q", schema.StoreKey(id), resolved, ok, id)
		}
	}

	if _, ok := form.FieldIDForKey("unknown_key"); ok {
		t.Fatalf("unknown key should not resolve")
	}
}

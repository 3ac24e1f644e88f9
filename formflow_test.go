package formflow_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/submit"
)

const visaFormDoc = `{
  "id": "visa-application",
  "title": "Visa Application Form",
  "fields": [
    {"id": "full-name", "type": "text", "label": "Full Name", "required": true},
    {"id": "email", "type": "email", "label": "Email", "required": true},
    {"id": "nationality", "type": "select", "label": "Nationality", "options": ["France", "Germany", "Spain"]},
    {"id": "application-fee", "type": "currency", "label": "Application Fee"}
  ]
}`

const visaRulesDoc = `[
  {
    "field_id": "email",
    "expression": "value.contains('@')",
    "prompt": "Enter a valid email address"
  }
]`

func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		"forms/visa.json": {Data: []byte(visaFormDoc)},
		"forms/rules.json": {Data: []byte(visaRulesDoc)},
	}
}

func TestLoadFormPreservesFieldOrder(t *testing.T) {
	form, err := formflow.LoadForm(context.Background(),
		formflow.SourceFromFS("forms/visa.json"),
		formflow.WithFS(fixtureFS()),
	)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}

	want := []string{"full-name", "email", "nationality", "application-fee"}
	if diff := cmp.Diff(want, form.FieldIDs()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFormWithRulesBindsRuleDocument(t *testing.T) {
	form, err := formflow.LoadFormWithRules(context.Background(),
		formflow.SourceFromFS("forms/visa.json"),
		formflow.SourceFromFS("forms/rules.json"),
		formflow.WithFS(fixtureFS()),
	)
	if err != nil {
		t.Fatalf("load form with rules: %v", err)
	}
	if got := len(form.RulesFor("email")); got != 1 {
		t.Fatalf("email has %d rules, want 1", got)
	}
}

func TestSessionRoundTripThroughFacade(t *testing.T) {
	form, err := formflow.LoadFormWithRules(context.Background(),
		formflow.SourceFromFS("forms/visa.json"),
		formflow.SourceFromFS("forms/rules.json"),
		formflow.WithFS(fixtureFS()),
	)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}

	recorder := submit.NewRecorder()
	sess, err := formflow.NewSession(form, session.WithSubmitter(recorder))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer sess.Close()

	for field, value := range map[string]string{
		"full-name":       "Jane Doe",
		"email":           "jane@example.com",
		"nationality":     "France",
		"application-fee": "120",
	} {
		if err := sess.Set(field, value); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}

	status := sess.Submit(context.Background())
	if status.Kind != session.StatusSuccess {
		t.Fatalf("status = %+v, want success", status)
	}
	if got := recorder.Submissions()[0]["application_fee"]; got != "120.00" {
		t.Fatalf("application_fee = %q, want %q", got, "120.00")
	}
}

func TestRenderHTMLProducesFormMarkup(t *testing.T) {
	form, err := formflow.LoadForm(context.Background(),
		formflow.SourceFromFS("forms/visa.json"),
		formflow.WithFS(fixtureFS()),
	)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}

	sess, err := formflow.NewSession(form)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer sess.Close()

	out, err := formflow.RenderHTML(context.Background(), sess, render.Options{
		Action: "/forms/visa-application/submit",
	})
	if err != nil {
		t.Fatalf("render html: %v", err)
	}

	markup := string(out)
	for _, want := range []string{"ff-form", "Full Name", "Nationality", `action="/forms/visa-application/submit"`} {
		if !strings.Contains(markup, want) {
			t.Fatalf("markup missing %q:\n%s", want, markup)
		}
	}
}

func TestNewRegistryRegistersHTML(t *testing.T) {
	registry, err := formflow.NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if !registry.Has("html") {
		t.Fatalf("registry renderers = %v, want html", registry.List())
	}
}

package html_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/format"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// Minimal valid PNG header; the preview pipeline only needs the MIME sniff to
// succeed.
var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func visaForm(t *testing.T) schema.Form {
	t.Helper()

	form, err := schema.NewForm("visa-application", "Visa Application", []schema.Field{
		{ID: "full-name", Type: schema.FieldTypeText, Label: "Full Name", Required: true, Placeholder: "Jane Q. Public"},
		{ID: "email", Type: schema.FieldTypeEmail, Label: "Email", Required: true},
		{ID: "visa-type", Type: schema.FieldTypeSelect, Label: "Visa Type", Options: []string{"Tourist", "Business", "Student"}},
		{ID: "languages", Type: schema.FieldTypeMultiCheckbox, Label: "Languages", Options: []string{"English", "Spanish", "French"}},
		{ID: "application-fee", Type: schema.FieldTypeCurrency, Label: "Application Fee"},
		{ID: "express", Type: schema.FieldTypeCheckbox, Label: "Express Processing"},
		{ID: "photo", Type: schema.FieldTypeFile, Label: "Photo", Caption: "Passport photo, JPEG or PNG"},
		{ID: "notes", Type: schema.FieldTypeRichText, Label: "Notes"},
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return form
}

func newLiveView(t *testing.T) render.View {
	t.Helper()

	s, err := session.New(visaForm(t), session.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(s.Close)

	mustDo := func(what string, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: %v", what, err)
		}
	}
	mustDo("set name", s.Set("full-name", "Jane Doe"))
	mustDo("pick visa", s.Set("visa-type", "Business"))
	mustDo("toggle english", s.ToggleOption("languages", "English", true))
	mustDo("toggle french", s.ToggleOption("languages", "French", true))
	mustDo("check express", s.Set("express", "true"))
	mustDo("attach photo", s.SetFile("photo", "me.png", "image/png", pngBytes))
	mustDo("insert notes", s.ApplyRichText("notes", format.RichTextCommand{Name: format.RichTextInsertText, Arg: "hello"}))
	mustDo("bold notes", s.ApplyRichText("notes", format.RichTextCommand{Name: format.RichTextBold}))

	// A malformed amount is recovered into the error map, not returned.
	mustDo("set fee", s.Set("application-fee", "12.3.4"))
	if s.FieldError("application-fee") == "" {
		t.Fatal("expected a currency field error")
	}

	return render.Snapshot(s)
}

func renderHTML(t *testing.T, view render.View, opts render.Options, options ...html.Option) string {
	t.Helper()

	renderer, err := html.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), view, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func wantContains(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			t.Errorf("output missing %q\n---\n%s", needle, haystack)
		}
	}
}

func TestRenderFullForm(t *testing.T) {
	view := newLiveView(t)
	markup := renderHTML(t, view, render.Options{Action: "/visa/submit"})

	wantContains(t, markup,
		`<form id="visa-application" class="ff-form" method="POST" action="/visa/submit" enctype="multipart/form-data"`,
		`<h1 class="ff-title">Visa Application</h1>`,
		`name="full_name" value="Jane Doe"`,
		`placeholder="Jane Q. Public"`,
		`type="email" id="ff-email" name="email"`,
		`<option value="Business" selected>Business</option>`,
		`<option value="Tourist">Tourist</option>`,
		`id="ff-languages-0" name="languages" value="English" checked`,
		`id="ff-languages-2" name="languages" value="French" checked`,
		`id="ff-languages-1" name="languages" value="Spanish"`,
		`type="checkbox" id="ff-express" name="express" value="true" checked`,
		`type="file" id="ff-photo" name="photo"`,
		`src="data:image/png;base64,`,
		`<small class="ff-caption">Passport photo, JPEG or PNG</small>`,
		`<strong>hello</strong></div>`,
		`inputmode="decimal"`,
		`aria-invalid="true"`,
		`<p class="ff-error" id="ff-application-fee-error" role="alert">`,
		`<button type="submit" class="ff-submit">Submit</button>`,
	)

	if strings.Contains(markup, `name="languages" value="Spanish" checked`) {
		t.Error("unchecked option rendered as checked")
	}
	if !strings.Contains(markup, `ff-field ff-field-amount-input ff-invalid`) {
		t.Errorf("fee wrapper missing invalid class\n---\n%s", markup)
	}
}

func TestRenderEscapesValues(t *testing.T) {
	form, err := schema.NewForm("echo", "", []schema.Field{
		{ID: "comment", Type: schema.FieldTypeText, Label: "Comment"},
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	view := render.View{
		Form:   form,
		Values: schema.FormValues{"comment": `"><script>alert(1)</script>`},
	}

	markup := renderHTML(t, view, render.Options{})
	if strings.Contains(markup, "<script>") {
		t.Fatalf("value not escaped:\n%s", markup)
	}
	wantContains(t, markup, "&lt;script&gt;")
}

func TestRenderSanitizesRichTextSetDirectly(t *testing.T) {
	form, err := schema.NewForm("echo", "", []schema.Field{
		{ID: "notes", Type: schema.FieldTypeRichText, Label: "Notes"},
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	view := render.View{
		Form:   form,
		Values: schema.FormValues{"notes": `<strong>ok</strong><script>alert(1)</script>`},
	}

	markup := renderHTML(t, view, render.Options{})
	if strings.Contains(markup, "<script>") {
		t.Fatalf("rich text markup not sanitized:\n%s", markup)
	}
	wantContains(t, markup, "<strong>ok</strong>")
}

func TestRenderMethodOverrideAndHiddenFields(t *testing.T) {
	view := render.View{Form: mustForm(t, "settings", schema.Field{ID: "name", Type: schema.FieldTypeText, Label: "Name"})}

	markup := renderHTML(t, view, render.Options{
		Method: "PUT",
		Action: "/settings",
		Hidden: []render.HiddenField{
			render.CSRFToken("_csrf", "tok-123"),
			render.VersionField("version", 7),
		},
	})

	wantContains(t, markup,
		`method="POST"`,
		`<input type="hidden" name="_method" value="PUT">`,
		`<input type="hidden" name="_csrf" value="tok-123">`,
		`<input type="hidden" name="version" value="7">`,
	)
	if strings.Contains(markup, `enctype=`) {
		t.Error("enctype emitted for a form without file fields")
	}
}

func TestRenderStatusBanner(t *testing.T) {
	view := render.View{
		Form:   mustForm(t, "settings", schema.Field{ID: "name", Type: schema.FieldTypeText, Label: "Name"}),
		Status: session.Status{Kind: session.StatusError, Message: "Please correct the form errors"},
		State:  session.StateIdle,
	}

	markup := renderHTML(t, view, render.Options{})
	wantContains(t, markup,
		`<div class="ff-status ff-status-error" role="status">Please correct the form errors</div>`,
	)

	view.Status = session.Status{}
	markup = renderHTML(t, view, render.Options{})
	if strings.Contains(markup, "ff-status ") {
		t.Errorf("status banner rendered without a message:\n%s", markup)
	}
}

func TestRenderSubmittingDisablesButton(t *testing.T) {
	view := render.View{
		Form:  mustForm(t, "settings", schema.Field{ID: "name", Type: schema.FieldTypeText, Label: "Name"}),
		State: session.StateSubmitting,
	}

	markup := renderHTML(t, view, render.Options{})
	wantContains(t, markup,
		`data-state="submitting"`,
		`<button type="submit" class="ff-submit" disabled>Submit</button>`,
	)
}

func TestRenderAppliesTheme(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"brand": "#123456", "radius": "4px"},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"brand": "#654321"}},
			},
		},
	}}

	view := render.View{Form: mustForm(t, "themed", schema.Field{ID: "name", Type: schema.FieldTypeText, Label: "Name"})}
	markup := renderHTML(t, view, render.Options{Variant: "dark"},
		html.WithThemeSelector(selector, "acme", "light"),
	)

	wantContains(t, markup,
		`--brand: #654321;`,
		`--radius: 4px;`,
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
	)
	if len(selector.calls) != 1 || selector.calls[0] != [2]string{"acme", "dark"} {
		t.Fatalf("selector calls = %v", selector.calls)
	}
}

func TestRenderThemeSelectorErrorPropagates(t *testing.T) {
	selector := &stubThemeSelector{err: errSelect}
	view := render.View{Form: mustForm(t, "themed", schema.Field{ID: "name", Type: schema.FieldTypeText, Label: "Name"})}

	renderer, err := html.New(html.WithThemeSelector(selector, "acme", ""))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := renderer.Render(context.Background(), view, render.Options{}); err == nil {
		t.Fatal("expected theme selection error")
	}
}

func TestRenderCustomControlFallsBackToInput(t *testing.T) {
	form := mustForm(t, "custom", schema.Field{
		ID:       "country",
		Type:     schema.FieldTypeText,
		Label:    "Country",
		Metadata: map[string]string{"control": "country-picker"},
	})
	view := render.View{Form: form}

	markup := renderHTML(t, view, render.Options{})
	wantContains(t, markup,
		`data-control="country-picker"`,
		`type="text" id="ff-country" name="country"`,
	)
}

func TestRendererIdentity(t *testing.T) {
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "html" {
		t.Fatalf("name = %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", renderer.ContentType())
	}
}

func mustForm(t *testing.T, id string, fields ...schema.Field) schema.Form {
	t.Helper()
	form, err := schema.NewForm(id, "", fields)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return form
}

var errSelect = &selectorError{}

type selectorError struct{}

func (e *selectorError) Error() string { return "theme catalogue unavailable" }

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     [][2]string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, [2]string{name, variant})
	if s.err != nil {
		return nil, s.err
	}
	return s.selection, nil
}

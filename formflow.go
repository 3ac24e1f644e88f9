// Package formflow is the convenience surface over the form engine: load a
// form and its validation rules from a file, fs.FS, or URL, open a session
// against them, and render the session through a registered renderer. The
// underlying packages (pkg/schema, pkg/session, pkg/render, the renderers)
// remain importable directly for callers that need finer control.
package formflow

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formflow/internal/loader"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// Form aliases schema.Form so quick-start callers only import the root
// package.
type Form = schema.Form

// Field aliases schema.Field.
type Field = schema.Field

// Rule aliases schema.Rule.
type Rule = schema.Rule

// FormValues aliases schema.FormValues.
type FormValues = schema.FormValues

// ErrorMap aliases schema.ErrorMap.
type ErrorMap = schema.ErrorMap

// Session aliases session.Session.
type Session = session.Session

// Status aliases session.Status.
type Status = session.Status

// SourceFromFile points a load at an on-disk document.
func SourceFromFile(path string) schema.Source { return schema.SourceFromFile(path) }

// SourceFromFS points a load at an entry inside the configured fs.FS.
func SourceFromFS(name string) schema.Source { return schema.SourceFromFS(name) }

// SourceFromURL points a load at an HTTP(S) document. URL loads must be
// enabled with WithAllowHTTP or WithHTTPClient.
func SourceFromURL(raw string) schema.Source { return schema.SourceFromURL(raw) }

// LoadForm fetches and parses a form document. Rules inlined in the document
// are attached; standalone rule documents load with LoadRules and attach via
// Form.AttachRules.
func LoadForm(ctx context.Context, src schema.Source, opts ...Option) (schema.Form, error) {
	doc, err := loadDocument(ctx, src, opts)
	if err != nil {
		return schema.Form{}, err
	}
	return schema.ParseForm(doc)
}

// LoadRules fetches and parses a standalone validation-rule document.
func LoadRules(ctx context.Context, src schema.Source, opts ...Option) ([]schema.Rule, error) {
	doc, err := loadDocument(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	return schema.ParseRules(doc)
}

// LoadFormWithRules loads a form document and a separate rule document and
// binds them. rulesSrc may be nil when all rules are inline.
func LoadFormWithRules(ctx context.Context, formSrc, rulesSrc schema.Source, opts ...Option) (schema.Form, error) {
	form, err := LoadForm(ctx, formSrc, opts...)
	if err != nil {
		return schema.Form{}, err
	}
	if rulesSrc == nil {
		return form, nil
	}
	rules, err := LoadRules(ctx, rulesSrc, opts...)
	if err != nil {
		return schema.Form{}, err
	}
	if err := form.AttachRules(rules); err != nil {
		return schema.Form{}, err
	}
	return form, nil
}

func loadDocument(ctx context.Context, src schema.Source, opts []Option) (schema.Document, error) {
	cfg := newConfig(opts)
	return loader.New(cfg.loaderOptions()).Load(ctx, src)
}

// NewSession opens a form session: values and errors start empty (or from
// initial data), rules compile once, and the submission controller sits in
// idle. Dispose with Close.
func NewSession(form schema.Form, opts ...session.Option) (*session.Session, error) {
	return session.New(form, opts...)
}

// NewRegistry returns a renderer registry with the built-in HTML renderer
// registered under "html". Callers add further renderers as needed.
func NewRegistry(htmlOpts ...html.Option) (*render.Registry, error) {
	renderer, err := html.New(htmlOpts...)
	if err != nil {
		return nil, fmt.Errorf("formflow: build html renderer: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(renderer); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderHTML snapshots the session and renders it with the built-in HTML
// renderer. The simplest path from session to markup.
func RenderHTML(ctx context.Context, sess *session.Session, options render.Options, htmlOpts ...html.Option) ([]byte, error) {
	renderer, err := html.New(htmlOpts...)
	if err != nil {
		return nil, fmt.Errorf("formflow: build html renderer: %w", err)
	}
	return renderer.Render(ctx, render.Snapshot(sess), options)
}

// Package html renders a form session view as a standalone HTML fragment.
// Markup structure comes from embedded pongo2 templates; callers can swap the
// bundle or the whole template engine through options.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/render"
	rendertemplate "github.com/goliatone/go-formflow/pkg/render/template"
	"github.com/goliatone/go-formflow/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	controls         *render.Controls
	themes           theme.ThemeSelector
	themeName        string
	themeVariant     string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithControls overrides the control registry used to pick a widget per field.
func WithControls(controls *render.Controls) Option {
	return func(cfg *config) {
		if controls != nil {
			cfg.controls = controls
		}
	}
}

// WithThemeSelector wires a theme catalogue plus the default theme and variant
// used when render options carry none.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.themes = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// Renderer produces HTML for a session view.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	controls     *render.Controls
	themes       theme.ThemeSelector
	themeName    string
	themeVariant string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.controls == nil {
		cfg.controls = render.NewControls()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		controls:     cfg.controls,
		themes:       cfg.themes,
		themeName:    cfg.themeName,
		themeVariant: cfg.themeVariant,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view render.View, options render.Options) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	themeCtx, err := r.resolveTheme(options)
	if err != nil {
		return nil, fmt.Errorf("html renderer: resolve theme: %w", err)
	}

	data := map[string]any{
		"form":   buildFormContext(view, options),
		"fields": buildFieldContexts(view, r.controls),
		"status": buildStatusContext(view),
		"theme":  themeCtx,
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

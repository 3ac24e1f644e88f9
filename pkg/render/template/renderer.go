// Package template defines the renderer-agnostic template seam markup
// renderers build on, mirroring the github.com/goliatone/go-template engine
// contract so either engine can sit behind it.
package template

import (
	"io"
)

// TemplateRenderer is the engine contract markup renderers rely on. Render
// dispatches between named templates and inline content; RenderTemplate and
// RenderString address each explicitly.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

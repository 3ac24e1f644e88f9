package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl templates/components/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle for consumers that want the
// built-in markup out of the box, or as a starting point for a custom bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

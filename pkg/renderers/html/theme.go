package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formflow/pkg/render"
)

type themeContext struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	Style   string `json:"style,omitempty"`
}

// resolveTheme merges per-request theme options with the renderer defaults and
// turns the selected manifest's tokens into a CSS custom property block.
func (r *Renderer) resolveTheme(options render.Options) (themeContext, error) {
	name := strings.TrimSpace(options.Theme)
	if name == "" {
		name = r.themeName
	}
	variant := strings.TrimSpace(options.Variant)
	if variant == "" {
		variant = r.themeVariant
	}

	ctx := themeContext{Name: name, Variant: variant}
	if r.themes == nil || name == "" {
		return ctx, nil
	}

	selection, err := r.themes.Select(name, variant)
	if err != nil {
		return themeContext{}, err
	}
	if selection == nil {
		return ctx, nil
	}

	if selection.Theme != "" {
		ctx.Name = selection.Theme
	}
	if selection.Variant != "" {
		ctx.Variant = selection.Variant
	}
	ctx.Style = cssVarsStyle(cssVars(manifestTokens(selection.Manifest, ctx.Variant)))
	return ctx, nil
}

// manifestTokens overlays the variant's token overrides on the manifest base.
func manifestTokens(manifest *theme.Manifest, variant string) map[string]string {
	if manifest == nil {
		return nil
	}
	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	if variant != "" {
		if v, ok := manifest.Variants[variant]; ok {
			for key, value := range v.Tokens {
				tokens[key] = value
			}
		}
	}
	return tokens
}

func cssVars(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return nil
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		out["--"+key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

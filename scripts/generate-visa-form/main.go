// Command generate-visa-form renders the example visa form to an HTML
// snapshot. Run it after template or theme changes to refresh the fixture
// the example documentation links to.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/render"
)

func main() {
	var (
		schemaPath = flag.String("schema", "examples/visa/testdata/visa-form.json", "form document path")
		rulesPath  = flag.String("rules", "examples/visa/testdata/visa-rules.json", "rule document path")
		outputPath = flag.String("output", "examples/visa/testdata/visa-form.golden.html", "output path for the rendered snapshot")
		action     = flag.String("action", "/forms/visa-application/submit", "form action attribute")
	)
	flag.Parse()

	ctx := context.Background()

	form, err := formflow.LoadFormWithRules(ctx,
		formflow.SourceFromFile(*schemaPath),
		formflow.SourceFromFile(*rulesPath),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load form: %v\n", err)
		os.Exit(1)
	}

	sess, err := formflow.NewSession(form)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open session: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	html, err := formflow.RenderHTML(ctx, sess, render.Options{Action: *action})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render form: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outputPath, html, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write snapshot: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Wrote form snapshot to %s\n", *outputPath)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/submit"
)

func main() {
	schemaFlag := flag.String("schema", "", "form document path or URL (required)")
	rulesFlag := flag.String("rules", "", "validation rule document path or URL")
	format := flag.String("format", "html", "output format: html or json")
	fill := flag.Bool("fill", false, "fill the form interactively and submit")
	submitURL := flag.String("submit", "", "submission endpoint used by -fill")
	theme := flag.String("theme", "", "theme name for HTML output")
	variant := flag.String("variant", "", "theme variant for HTML output")
	action := flag.String("action", "", "form action attribute for HTML output")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	schemaSrc := parseSource(*schemaFlag)
	if schemaSrc == nil {
		log.Fatalf("invalid -schema: %q", *schemaFlag)
	}
	rulesSrc := parseSource(*rulesFlag)

	form, err := formflow.LoadFormWithRules(ctx, schemaSrc, rulesSrc, formflow.WithAllowHTTP())
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	if *fill {
		if err := runFill(ctx, form, *submitURL); err != nil {
			log.Fatalf("Fill failed: %v", err)
		}
		return
	}

	var out []byte
	switch *format {
	case "json":
		out, err = json.MarshalIndent(form, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode form: %v", err)
		}
		out = append(out, '\n')
	case "html":
		sess, err := formflow.NewSession(form)
		if err != nil {
			log.Fatalf("Failed to open session: %v", err)
		}
		defer sess.Close()
		out, err = formflow.RenderHTML(ctx, sess, render.Options{
			Action:  *action,
			Theme:   *theme,
			Variant: *variant,
		})
		if err != nil {
			log.Fatalf("Failed to render form: %v", err)
		}
	default:
		log.Fatalf("unknown -format: %q", *format)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Print(string(out))
	}
}

func runFill(ctx context.Context, form formflow.Form, submitURL string) error {
	var submitter session.Submitter
	if submitURL != "" {
		httpSubmitter, err := submit.NewHTTP(submitURL)
		if err != nil {
			return err
		}
		submitter = httpSubmitter
	} else {
		submitter = submit.NewRecorder()
	}

	sess, err := formflow.NewSession(form, session.WithSubmitter(submitter))
	if err != nil {
		return err
	}
	defer sess.Close()

	filler, err := tui.New()
	if err != nil {
		return err
	}
	status, err := filler.Run(ctx, sess)
	if err != nil {
		return err
	}
	if status.Kind != session.StatusSuccess {
		return fmt.Errorf("submission not accepted: %s", status.Message)
	}
	return nil
}

func parseSource(raw string) schema.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return schema.SourceFromURL(path)
	}
	return schema.SourceFromFile(path)
}

// Package tui fills a form session from the terminal. A Filler walks the
// form's fields in declaration order, prompts per field type through a
// PromptDriver (survey by default), and routes every answer through the
// session's edit operations so formatting and validation apply exactly as
// they would for any other front end. The final submit goes through the
// session's controller.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-formflow/pkg/format"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

const defaultMaxAttempts = 3

// Filler drives an interactive fill of one form session.
type Filler struct {
	driver      PromptDriver
	logger      *slog.Logger
	maxAttempts int
	pageSize    int
	files       FileLoader
}

// New constructs a Filler with defaults: the survey driver, on-disk file
// loading, and three attempts per field.
func New(options ...Option) (*Filler, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	f := &Filler{
		driver:      driver,
		logger:      slog.Default(),
		maxAttempts: defaultMaxAttempts,
		files:       loadFileFromDisk,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f, nil
}

// Run prompts for every field in order, then submits through the session's
// controller and reports the outcome. Field input the formatters or rules
// reject triggers a re-prompt, bounded by the attempt limit; a field still
// invalid after the limit keeps its error and full-form validation repeats
// the complaint at submit time. Run returns the submit status; ErrAborted
// when the user bails out.
func (f *Filler) Run(ctx context.Context, sess *session.Session) (session.Status, error) {
	if sess == nil {
		return session.Status{}, ErrNilSession
	}

	form := sess.Form()
	if form.Title != "" {
		_ = f.driver.Info(ctx, form.Title)
	}

	for _, field := range form.Fields {
		if err := f.promptField(ctx, sess, field); err != nil {
			return sess.Status(), err
		}
	}

	status := sess.Submit(ctx)
	if status.Kind == session.StatusError {
		for _, line := range errorLines(sess.Errors()) {
			_ = f.driver.Info(ctx, line)
		}
	}
	if status.Message != "" {
		_ = f.driver.Info(ctx, status.Message)
	}
	return status, nil
}

func (f *Filler) promptField(ctx context.Context, sess *session.Session, field schema.Field) error {
	switch field.Type {
	case schema.FieldTypeSelect:
		return f.promptSelect(ctx, sess, field)
	case schema.FieldTypeMultiCheckbox:
		return f.promptMultiCheckbox(ctx, sess, field)
	case schema.FieldTypeCheckbox:
		return f.promptCheckbox(ctx, sess, field)
	case schema.FieldTypeFile:
		return f.promptFile(ctx, sess, field)
	case schema.FieldTypeRichText:
		return f.promptRichText(ctx, sess, field)
	default:
		return f.promptText(ctx, sess, field)
	}
}

// promptText covers text, email, date, phone, and currency fields: one input
// prompt, the answer written through Set so the per-type formatter runs.
func (f *Filler) promptText(ctx context.Context, sess *session.Session, field schema.Field) error {
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		raw, err := f.driver.Input(ctx, InputConfig{
			Message: promptLabel(field),
			Default: sess.Get(field.ID),
			Help:    promptHelp(field),
		})
		if err != nil {
			return err
		}

		if strings.TrimSpace(raw) == "" {
			if field.Required {
				_ = f.driver.Info(ctx, field.Label+" is required")
				continue
			}
			return nil
		}

		if err := sess.Set(field.ID, raw); err != nil {
			return err
		}
		msg := sess.FieldError(field.ID)
		if msg == "" {
			return nil
		}
		_ = f.driver.Info(ctx, msg)
	}

	f.logger.Debug("field left invalid after attempt limit", "field", field.ID)
	return nil
}

func (f *Filler) promptSelect(ctx context.Context, sess *session.Session, field schema.Field) error {
	defaultIdx := indexOf(field.Options, sess.Get(field.ID))
	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:      promptLabel(field),
		Options:      field.Options,
		DefaultIndex: defaultIdx,
		Help:         promptHelp(field),
		PageSize:     f.pageSize,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(field.Options) {
		return nil
	}
	return sess.Set(field.ID, field.Options[idx])
}

func (f *Filler) promptMultiCheckbox(ctx context.Context, sess *session.Session, field schema.Field) error {
	current := format.SplitOptions(sess.Get(field.ID))
	indices, err := f.driver.MultiSelect(ctx, SelectConfig{
		Message:  promptLabel(field),
		Options:  field.Options,
		Defaults: indicesOf(field.Options, current),
		Help:     promptHelp(field),
		PageSize: f.pageSize,
	})
	if err != nil {
		return err
	}

	selected := valuesFromIndices(field.Options, indices)
	keep := make(map[string]struct{}, len(selected))
	for _, option := range selected {
		keep[option] = struct{}{}
	}
	for _, option := range current {
		if _, ok := keep[option]; !ok {
			if err := sess.ToggleOption(field.ID, option, false); err != nil {
				return err
			}
		}
	}
	for _, option := range selected {
		if err := sess.ToggleOption(field.ID, option, true); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) promptCheckbox(ctx context.Context, sess *session.Session, field schema.Field) error {
	checked, err := f.driver.Confirm(ctx, ConfirmConfig{
		Message: promptLabel(field),
		Default: sess.Get(field.ID) == "true",
		Help:    promptHelp(field),
	})
	if err != nil {
		return err
	}
	value := "false"
	if checked {
		value = "true"
	}
	return sess.Set(field.ID, value)
}

func (f *Filler) promptFile(ctx context.Context, sess *session.Session, field schema.Field) error {
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		path, err := f.driver.Input(ctx, InputConfig{
			Message: promptLabel(field) + " (file path)",
			Help:    promptHelp(field),
		})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			if field.Required {
				_ = f.driver.Info(ctx, field.Label+" is required")
				continue
			}
			return nil
		}

		mimeType, data, err := f.files(path)
		if err != nil {
			_ = f.driver.Info(ctx, fmt.Sprintf("Cannot read %s: %v", path, err))
			continue
		}
		return sess.SetFile(field.ID, filepath.Base(path), mimeType, data)
	}

	f.logger.Debug("file field left unset after attempt limit", "field", field.ID)
	return nil
}

func (f *Filler) promptRichText(ctx context.Context, sess *session.Session, field schema.Field) error {
	text, err := f.driver.TextArea(ctx, TextAreaConfig{
		Message: promptLabel(field),
		Default: sess.Get(field.ID),
		Help:    promptHelp(field),
	})
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if sess.Get(field.ID) != "" {
		if err := sess.ApplyRichText(field.ID, format.RichTextCommand{Name: format.RichTextClear}); err != nil {
			return err
		}
	}
	return sess.ApplyRichText(field.ID, format.RichTextCommand{Name: format.RichTextInsertText, Arg: text})
}

func promptLabel(field schema.Field) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

func promptHelp(field schema.Field) string {
	if field.Caption != "" {
		return field.Caption
	}
	return field.Placeholder
}

func errorLines(errs schema.ErrorMap) []string {
	ids := make([]string, 0, len(errs))
	for id := range errs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, fmt.Sprintf("  %s: %s", id, errs[id]))
	}
	return out
}

func loadFileFromDisk(path string) (string, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return mimeType, data, nil
}

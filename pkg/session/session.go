// Package session owns the mutable half of a form: the field value store,
// the per-field error map, and the submission controller's state machine.
// One Session is one form instance from load to disposal. Sessions are
// independent; no state is shared between them.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/format"
	"github.com/goliatone/go-formflow/pkg/rules"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// ErrClosed is returned by edit operations after Close.
var ErrClosed = errors.New("session: closed")

// Status and error messages surfaced to the user.
const (
	msgValidationFailed = "Please correct the form errors"
	msgSubmitSucceeded  = "Form submitted successfully!"
	msgSubmitFailed     = "Failed to submit form"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Session binds a loaded form to a value store, a validation engine, and a
// submission controller. All methods are safe for concurrent use; one mutex
// serializes every mutation, preserving the single-mutator design. The only
// operation performed without the lock is the external submit call, so field
// edits remain possible while a submission is in flight.
type Session struct {
	form      schema.Form
	engine    *rules.Engine
	submitter Submitter
	window    time.Duration
	logger    *slog.Logger
	observer  Observer

	mu     sync.Mutex
	store  *store
	ctrl   *controller
	closed bool
}

// New builds a session for the form. Rules attached to the form are compiled
// once here; a rule that fails to compile is reported and skipped, never an
// error.
func New(form schema.Form, opts ...Option) (*Session, error) {
	cfg := config{
		window: DefaultDisplayWindow,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	engine, err := rules.NewEngine(form,
		rules.WithLogger(cfg.logger),
		rules.WithObserver(cfg.ruleObserver),
	)
	if err != nil {
		return nil, fmt.Errorf("session: build validation engine: %w", err)
	}

	s := &Session{
		form:      form,
		engine:    engine,
		submitter: cfg.submitter,
		window:    cfg.window,
		logger:    cfg.logger,
		observer:  cfg.observer,
		store:     newStore(),
		ctrl:      newController(),
	}

	for fieldID, raw := range cfg.initialValues {
		field, ok := form.Field(fieldID)
		if !ok {
			return nil, &schema.SchemaError{Field: fieldID, Reason: "initial value targets unknown field"}
		}
		s.writeFormatted(field, raw)
	}

	return s, nil
}

// Form returns the immutable form definition the session was built from.
func (s *Session) Form() schema.Form {
	return s.form
}

// Set formats raw input for the field, stores the result, and re-validates
// the field. Input the formatter rejects becomes a field-level error and the
// stored value is left unchanged. Unknown field ids are never written.
func (s *Session) Set(fieldID, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	field, ok := s.form.Field(fieldID)
	if !ok {
		return &schema.SchemaError{Field: fieldID, Reason: "unknown field"}
	}

	s.ctrl.noteEdit()
	s.writeFormatted(field, raw)
	return nil
}

// writeFormatted runs the formatter and either stores the value and
// re-validates the field, or records the format failure. Callers hold the
// lock (or, in New, have not shared the session yet).
func (s *Session) writeFormatted(field schema.Field, raw string) {
	formatted, err := format.Apply(field, raw)
	if err != nil {
		var ferr *format.FormatError
		if errors.As(err, &ferr) {
			s.store.setError(field.ID, fmt.Sprintf("%s: %s", field.Label, ferr.Reason))
			return
		}
		// Formatters only fail with *FormatError; anything else is a bug we
		// still refuse to store.
		s.store.setError(field.ID, field.Label+": invalid input")
		return
	}
	s.store.setValue(field.ID, formatted)
	s.revalidateField(field.ID, formatted)
}

// revalidateField updates the field's error entry from its rules. Caller
// holds the lock.
func (s *Session) revalidateField(fieldID, value string) {
	if msg := s.engine.ValidateField(fieldID, value, s.store.values); msg != "" {
		s.store.setError(fieldID, msg)
	} else {
		s.store.clearError(fieldID)
	}
}

// Get returns the stored value for the field, or "" when unset.
func (s *Session) Get(fieldID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.value(fieldID)
}

// ToggleOption checks or unchecks one option of a multi-checkbox field. The
// stored value is the comma-joined membership in check order.
func (s *Session) ToggleOption(fieldID, option string, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	field, ok := s.form.Field(fieldID)
	if !ok {
		return &schema.SchemaError{Field: fieldID, Reason: "unknown field"}
	}
	if field.Type != schema.FieldTypeMultiCheckbox {
		return fmt.Errorf("session: field %q does not take option toggles", fieldID)
	}

	s.ctrl.noteEdit()
	next := format.ToggleOption(s.store.value(fieldID), option, checked)
	s.store.setValue(fieldID, next)
	s.revalidateField(fieldID, next)
	return nil
}

// SetFile encodes a selected file into the field as a data URI. Image
// selections also produce a preview handle; the session owns it and releases
// it when a later selection supersedes it or the session closes.
func (s *Session) SetFile(fieldID, filename, mimeType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	field, ok := s.form.Field(fieldID)
	if !ok {
		return &schema.SchemaError{Field: fieldID, Reason: "unknown field"}
	}
	if field.Type != schema.FieldTypeFile {
		return fmt.Errorf("session: field %q does not take file uploads", fieldID)
	}

	s.ctrl.noteEdit()
	uri, preview := format.EncodeFile(filename, mimeType, data)
	s.store.adoptPreview(fieldID, preview)
	s.store.setValue(fieldID, uri)
	s.revalidateField(fieldID, uri)
	return nil
}

// ApplyRichText applies an editing command to a rich-text field's content.
func (s *Session) ApplyRichText(fieldID string, cmd format.RichTextCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	field, ok := s.form.Field(fieldID)
	if !ok {
		return &schema.SchemaError{Field: fieldID, Reason: "unknown field"}
	}
	if field.Type != schema.FieldTypeRichText {
		return fmt.Errorf("session: field %q is not rich text", fieldID)
	}

	next, err := format.RichText(s.store.value(fieldID), cmd)
	if err != nil {
		return err
	}
	s.ctrl.noteEdit()
	s.store.setValue(fieldID, next)
	s.revalidateField(fieldID, next)
	return nil
}

// Values returns a snapshot of the current form values.
func (s *Session) Values() schema.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.snapshotValues()
}

// Errors returns a snapshot of the current error map.
func (s *Session) Errors() schema.ErrorMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.snapshotErrors()
}

// FieldError returns the current error for the field, or "".
func (s *Session) FieldError(fieldID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.errors[fieldID]
}

// PreviewURL returns the preview handle URL for a file field, or "" when the
// field holds no image.
func (s *Session) PreviewURL(fieldID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.previewURL(fieldID)
}

// Status returns the current transient status banner.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.status
}

// State returns the submission controller's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.state
}

// CorrelationID identifies the most recent submission attempt that reached
// the collaborator, or "" when none has.
func (s *Session) CorrelationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.correlation
}

// Reset returns the session to a pristine idle form: values and errors clear
// together, previews release, pending display timers stop.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.ctrl.stopTimers()
	s.ctrl.state = StateIdle
	s.ctrl.status = statusNone()
	s.store.reset()
}

// Close disposes the session: both display timers are cancelled and preview
// handles released. Edits after Close return ErrClosed; a submit outcome
// arriving after Close is dropped. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.ctrl.stopTimers()
	s.store.releasePreviews()
}

// Submit runs the full submission pass: re-validate every field, and only if
// the form is clean, invoke the submit collaborator once. The returned
// Status reflects the outcome. Duplicate submits (while a pass is validating
// or in flight) are dropped and logged, never an error; nothing Submit does
// propagates past the status and the error map.
func (s *Session) Submit(ctx context.Context) Status {
	s.mu.Lock()
	if s.closed {
		st := s.ctrl.status
		s.mu.Unlock()
		return st
	}
	if s.ctrl.guardActive() {
		s.logger.Debug("duplicate submit dropped",
			"form", s.form.ID,
			"state", string(s.ctrl.state),
		)
		if s.observer != nil {
			s.observer.DuplicateSubmit(s.form.ID)
		}
		st := s.ctrl.status
		s.mu.Unlock()
		return st
	}

	// A fresh pass supersedes any lingering success display window.
	s.ctrl.stopTimers()
	s.ctrl.state = StateValidating
	values := s.store.snapshotValues()
	s.mu.Unlock()

	errs := s.engine.ValidateForm(values)

	s.mu.Lock()
	if s.closed || s.ctrl.state != StateValidating {
		// Close or Reset intervened; drop this pass.
		st := s.ctrl.status
		s.mu.Unlock()
		return st
	}
	if len(errs) > 0 {
		s.store.replaceErrors(errs)
		s.ctrl.state = StateIdle
		s.ctrl.status = Status{Kind: StatusError, Message: msgValidationFailed}
		st := s.ctrl.status
		if s.observer != nil {
			s.observer.SubmissionFinished(s.form.ID, outcomeRejected, 0)
		}
		s.logger.Debug("submission rejected by validation",
			"form", s.form.ID,
			"fields", len(errs),
		)
		s.mu.Unlock()
		return st
	}

	if s.submitter == nil {
		s.ctrl.state = StateFailed
		s.ctrl.status = Status{Kind: StatusError, Message: msgSubmitFailed}
		st := s.ctrl.status
		s.logger.Error("no submit collaborator configured", "form", s.form.ID)
		if s.observer != nil {
			s.observer.SubmissionFinished(s.form.ID, outcomeFailed, 0)
		}
		s.mu.Unlock()
		return st
	}

	correlation := uuid.NewString()
	s.ctrl.correlation = correlation
	s.ctrl.state = StateSubmitting
	submitter := s.submitter
	s.mu.Unlock()

	// The collaborator runs without the lock: edits stay possible while the
	// submission is in flight, and only new submits are guarded.
	start := time.Now()
	err := submitter.Submit(ctx, values)
	elapsed := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ctrl.state != StateSubmitting {
		s.logger.Debug("submit outcome dropped, session closed or reset",
			"form", s.form.ID,
			"correlation", correlation,
		)
		return s.ctrl.status
	}

	if err != nil {
		s.ctrl.state = StateFailed
		s.ctrl.status = Status{Kind: StatusError, Message: failureMessage(err)}
		s.logger.Warn("submission failed",
			"form", s.form.ID,
			"correlation", correlation,
			"error", err,
		)
		if s.observer != nil {
			s.observer.SubmissionFinished(s.form.ID, outcomeFailed, elapsed)
		}
		return s.ctrl.status
	}

	s.ctrl.state = StateSucceeded
	s.ctrl.status = Status{Kind: StatusSuccess, Message: msgSubmitSucceeded}
	s.store.clearErrors()
	s.armTimers()
	s.logger.Info("submission accepted",
		"form", s.form.ID,
		"correlation", correlation,
		"elapsed", elapsed,
	)
	if s.observer != nil {
		s.observer.SubmissionFinished(s.form.ID, outcomeAccepted, elapsed)
	}
	return s.ctrl.status
}

// armTimers schedules the two independent display-window callbacks: one
// resets the form to blank, one clears the success banner. Each is
// cancellable and re-checks session state when it fires, so a timer that
// outlives a Close or a new edit writes nothing. Caller holds the lock.
func (s *Session) armTimers() {
	s.ctrl.resetTimer = time.AfterFunc(s.window, s.onResetWindow)
	s.ctrl.statusTimer = time.AfterFunc(s.window, s.onStatusWindow)
}

func (s *Session) onResetWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.resetTimer = nil
	if s.closed || s.ctrl.state != StateSucceeded {
		return
	}
	s.store.reset()
	s.ctrl.state = StateIdle
}

func (s *Session) onStatusWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.statusTimer = nil
	if s.closed {
		return
	}
	if s.ctrl.status.Kind == StatusSuccess {
		s.ctrl.status = statusNone()
	}
}

// failureMessage derives the user-facing text for a collaborator failure.
func failureMessage(err error) string {
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return msgSubmitFailed
}

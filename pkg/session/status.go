package session

// State names the submission controller's position in its lifecycle. All
// transitions are owned by the controller: idle -> validating -> idle on
// validation failure, validating -> submitting -> succeeded -> idle once the
// success display window elapses, and submitting -> failed -> idle on the
// next edit or retry.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// StatusKind classifies the transient status banner.
type StatusKind string

const (
	StatusNone    StatusKind = "none"
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the session-level message shown alongside the form.
type Status struct {
	Kind    StatusKind
	Message string
}

func statusNone() Status {
	return Status{Kind: StatusNone}
}

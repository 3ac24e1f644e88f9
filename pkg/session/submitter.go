package session

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Submitter is the external collaborator a session hands validated values
// to. It is invoked exactly once per successful validation pass and is the
// engine's only boundary call outward. The session never cancels an
// in-flight call; the collaborator applies its own timeout policy through
// ctx.
type Submitter interface {
	Submit(ctx context.Context, values schema.FormValues) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, values schema.FormValues) error

func (f SubmitterFunc) Submit(ctx context.Context, values schema.FormValues) error {
	return f(ctx, values)
}

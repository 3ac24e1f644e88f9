package submit

import (
	"context"
	"sync"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Recorder is an in-memory submitter. It keeps every accepted submission and
// can be primed to fail, which makes it useful in examples and tests that
// exercise the failure path without a live endpoint.
type Recorder struct {
	mu          sync.Mutex
	submissions []schema.FormValues
	err         error
}

// NewRecorder returns an empty recorder that accepts every submission.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Fail makes subsequent submissions return err. Pass nil to accept again.
func (r *Recorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Submit records the values unless the recorder is primed to fail.
func (r *Recorder) Submit(ctx context.Context, values schema.FormValues) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.submissions = append(r.submissions, values.Clone())
	return nil
}

// Submissions returns a copy of everything recorded so far.
func (r *Recorder) Submissions() []schema.FormValues {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]schema.FormValues, len(r.submissions))
	for i, v := range r.submissions {
		out[i] = v.Clone()
	}
	return out
}

// Len reports how many submissions were recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submissions)
}

// Package submit provides collaborators for the session's submission
// controller: an HTTP submitter that posts form values to an endpoint, and an
// in-memory recorder for tests and examples.
package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Receipt is the acknowledgement an endpoint may return for an accepted
// submission. All fields are optional; an empty 2xx body is still a success.
type Receipt struct {
	ID        string    `json:"id,omitempty"`
	FormID    string    `json:"form_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// HTTPSubmitter posts form values as a JSON object to a fixed endpoint. Any
// 2xx response is a success; everything else, including transport failures,
// is an error for the session to surface.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	headers  http.Header

	mu   sync.Mutex
	last *Receipt
}

// HTTPOption configures an HTTPSubmitter.
type HTTPOption func(*HTTPSubmitter)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSubmitter) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout bounds each submission request. Zero means no per-request
// deadline beyond the caller's context.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(s *HTTPSubmitter) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithHeader adds a header to every submission request, e.g. an auth token.
func WithHeader(key, value string) HTTPOption {
	return func(s *HTTPSubmitter) {
		s.headers.Set(key, value)
	}
}

// NewHTTP builds a submitter for the endpoint.
func NewHTTP(endpoint string, opts ...HTTPOption) (*HTTPSubmitter, error) {
	if endpoint == "" {
		return nil, errors.New("submit: endpoint is required")
	}
	s := &HTTPSubmitter{
		endpoint: endpoint,
		client:   http.DefaultClient,
		headers:  make(http.Header),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submit posts the values and decodes the receipt when the endpoint returns
// one. Implements the session's Submitter contract.
func (s *HTTPSubmitter) Submit(ctx context.Context, values schema.FormValues) error {
	body, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("submit: encode values: %w", err)
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if s.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, vals := range s.headers {
		for _, v := range vals {
			req.Header.Add(key, v)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("submit: unexpected status %s", resp.Status)
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err == nil {
		s.mu.Lock()
		s.last = &receipt
		s.mu.Unlock()
	}
	// A 2xx with an undecodable or empty body is still an accepted submission.
	return nil
}

// LastReceipt returns the receipt from the most recent accepted submission,
// or false when none decoded yet.
func (s *HTTPSubmitter) LastReceipt() (Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Receipt{}, false
	}
	return *s.last, true
}

// Package loader fetches form and rule documents from files, fs.FS trees, or
// HTTP endpoints, returning them as schema documents with provenance intact.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Options carries the pre-resolved loader configuration.
type Options struct {
	// FileSystem backs SourceKindFS loads, typically an embed.FS.
	FileSystem fs.FS

	// HTTPClient backs SourceKindURL loads when set.
	HTTPClient *http.Client

	// AllowHTTP enables URL loads with a default client when no HTTPClient
	// was provided.
	AllowHTTP bool

	// RequestTimeout bounds each URL load.
	RequestTimeout time.Duration
}

// Loader delegates to the file, fs.FS, or HTTP strategy matching the source.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// New constructs a Loader. HTTP support is off unless an HTTPClient is given
// or AllowHTTP is set.
func New(options Options) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTP:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches the document behind the source.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case schema.SourceKindURL:
		if !l.allowHTTP {
			return schema.Document{}, errors.New("loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("loader: unsupported source kind")
	}
	if err != nil {
		return schema.Document{}, err
	}

	return schema.NewDocument(src, data)
}

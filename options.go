package formflow

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formflow/internal/loader"
)

// Option configures document loading on the root facade.
type Option func(*config)

type config struct {
	fileSystem fs.FS
	httpClient *http.Client
	allowHTTP  bool
	timeout    time.Duration
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

func (c config) loaderOptions() loader.Options {
	return loader.Options{
		FileSystem:     c.fileSystem,
		HTTPClient:     c.httpClient,
		AllowHTTP:      c.allowHTTP,
		RequestTimeout: c.timeout,
	}
}

// WithFS backs SourceFromFS loads, typically with an embed.FS.
func WithFS(files fs.FS) Option {
	return func(c *config) {
		c.fileSystem = files
	}
}

// WithHTTPClient enables URL loads through the supplied client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithAllowHTTP enables URL loads with a default client.
func WithAllowHTTP() Option {
	return func(c *config) {
		c.allowHTTP = true
	}
}

// WithRequestTimeout bounds each URL load.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *config) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

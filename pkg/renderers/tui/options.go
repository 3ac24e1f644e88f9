package tui

import "log/slog"

// FileLoader reads a file the user named at a file-picker prompt and returns
// its MIME type plus contents. The default loader reads from disk and infers
// the type from the extension.
type FileLoader func(path string) (mimeType string, data []byte, err error)

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver used by the fill loop.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithLogger routes fill-loop logging to the supplied logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMaxAttempts bounds how many times one field is re-prompted after
// rejected input before the loop moves on and leaves the field error in
// place. Zero or negative values are ignored.
func WithMaxAttempts(attempts int) Option {
	return func(f *Filler) {
		if attempts > 0 {
			f.maxAttempts = attempts
		}
	}
}

// WithFileLoader replaces the on-disk file loader used for file fields.
func WithFileLoader(loader FileLoader) Option {
	return func(f *Filler) {
		if loader != nil {
			f.files = loader
		}
	}
}

// WithPageSize sets the page size for select and multi-select prompts.
func WithPageSize(size int) Option {
	return func(f *Filler) {
		if size > 0 {
			f.pageSize = size
		}
	}
}

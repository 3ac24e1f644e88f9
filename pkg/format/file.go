package format

import (
	"encoding/base64"
	"path"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// EncodeFile converts a selected file to a self-describing data URI for the
// value store. When the MIME type indicates an image a Preview handle is
// returned as well; the value store owns it from creation until a later
// selection supersedes it or the session is torn down, whichever comes first.
func EncodeFile(filename, mimeType string, data []byte) (string, *Preview) {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	uri := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)

	var preview *Preview
	if strings.HasPrefix(mimeType, "image/") {
		preview = newPreview(filename)
	}
	return uri, preview
}

// Preview is the disposable handle for an image preview. Release is
// idempotent; only the owning store may call it.
type Preview struct {
	url      string
	released atomic.Bool
}

func newPreview(filename string) *Preview {
	name := path.Base(strings.TrimSpace(filename))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return &Preview{url: "preview://" + uuid.NewString() + "/" + name}
}

// URL returns the opaque handle the presentation layer keys the preview on.
func (p *Preview) URL() string {
	if p == nil {
		return ""
	}
	return p.url
}

// Release disposes the handle. Releasing twice, or releasing a nil preview,
// is a no-op.
func (p *Preview) Release() {
	if p != nil {
		p.released.Store(true)
	}
}

// Released reports whether the handle has been disposed.
func (p *Preview) Released() bool {
	return p != nil && p.released.Load()
}

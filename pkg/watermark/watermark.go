// Package watermark embeds the Share2Teach license notice into uploaded documents.
// Every transform is a pure buffer-to-buffer function selected by MIME type.
package watermark

import (
	"errors"
	"fmt"
)

// License is the notice stamped onto every stored document.
const License = "Share2Teach License - CC BY-NC-ND 4.0"

// ErrUnsupported is returned for MIME types without a transform.
var ErrUnsupported = errors.New("watermark: unsupported file type")

// Transform rewrites a document so that it carries text.
type Transform func(data []byte, text string) ([]byte, error)

// Registry dispatches documents to the transform registered for their MIME type.
type Registry struct {
	text       string
	transforms map[string]Transform
}

// NewRegistry returns a registry with the default transforms for every supported format.
func NewRegistry() *Registry {
	r := &Registry{text: License, transforms: make(map[string]Transform)}
	r.Register(MIMEPDF, PDF)
	r.Register(MIMEDocx, Docx)
	r.Register(MIMEXlsx, Xlsx)
	r.Register(MIMEPptx, Pptx)
	r.Register(MIMEText, Text)
	return r
}

// Register binds a transform to a MIME type, replacing any previous one.
func (r *Registry) Register(mime string, t Transform) {
	r.transforms[mime] = t
}

// Supports reports whether mime has a transform.
func (r *Registry) Supports(mime string) bool {
	_, ok := r.transforms[mime]
	return ok
}

// Apply runs the transform for mime over data.
func (r *Registry) Apply(mime string, data []byte) ([]byte, error) {
	t, ok := r.transforms[mime]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
	out, err := t(data, r.text)
	if err != nil {
		return nil, fmt.Errorf("watermark %s: %w", mime, err)
	}
	return out, nil
}

// Text appends the notice as a trailer.
func Text(data []byte, text string) ([]byte, error) {
	out := make([]byte, 0, len(data)+len(text)+3)
	out = append(out, data...)
	out = append(out, "\n\n"...)
	out = append(out, text...)
	out = append(out, '\n')
	return out, nil
}

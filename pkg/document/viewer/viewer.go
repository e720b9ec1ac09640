// Package viewer renders persisted documents read-only.
package viewer

import (
	"bytes"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/render"
)

type Option func(*Viewer)

// WithSanitizer passes the rendered HTML through policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(v *Viewer) {
		v.policy = policy
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(v *Viewer) {
		v.logger = logger
	}
}

// DefaultPolicy allows the markup produced by the render package,
// including inline data-URI images and text alignment.
func DefaultPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowDataURIImages()
	p.AllowAttrs("contenteditable").Matching(bluemonday.Paragraph).OnElements("div")
	p.AllowStyles("text-align").MatchingEnum("left", "right", "center", "justify").Globally()
	return p
}

// Viewer renders a document without editing affordances. It never
// modifies the document it was given.
type Viewer struct {
	doc    document.Document
	policy *bluemonday.Policy
	logger *zap.Logger
}

// New resolves value into a document. value may be a document.Document,
// a legacy plain string, a decoded JSON value, or nil.
func New(value any, opts ...Option) *Viewer {
	v := &Viewer{}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
	v.doc = document.Resolve(value)
	return v
}

// Document returns the resolved document.
func (v *Viewer) Document() document.Document { return v.doc }

// Render writes the HTML of the document to w.
func (v *Viewer) Render(w io.Writer) error {
	if v.policy == nil {
		return render.Document(w, v.doc)
	}

	var buf bytes.Buffer
	if err := render.Document(&buf, v.doc); err != nil {
		return err
	}
	_, err := v.policy.SanitizeReader(&buf).WriteTo(w)
	return err
}

// HTML returns the rendered document. Rendering into memory cannot fail,
// so errors are only logged.
func (v *Viewer) HTML() string {
	var buf bytes.Buffer
	if err := v.Render(&buf); err != nil {
		v.logger.Debug("failed to render document", zap.Error(err))
	}
	return buf.String()
}

// Text returns the plain text of the document.
func (v *Viewer) Text() string {
	return document.PlainText(v.doc)
}

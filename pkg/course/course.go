// Package course models the course records whose rich-text fields are
// documents. Older records store those fields as plain strings; decoding
// upgrades each field on its own.
package course

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark/util"
	"go.uber.org/multierr"

	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/viewer"
)

type Kind string

const (
	KindCourse   Kind = "course"
	KindGuide    Kind = "guide"
	KindWorkshop Kind = "workshop"
)

type Course struct {
	ID          string            `json:"id" validate:"required"`
	Title       string            `json:"title" validate:"required"`
	Kind        Kind              `json:"kind,omitempty" validate:"omitempty,oneof=course guide workshop"`
	Description document.Document `json:"description"`
	Modules     []Module          `json:"modules,omitempty" validate:"dive"`
}

type Module struct {
	Title   string            `json:"title" validate:"required"`
	Content document.Document `json:"content"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode reads a persisted course. Legacy string fields are upgraded.
func Decode(r io.Reader) (*Course, error) {
	var c Course
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, errors.Wrap(err, "failed to decode course")
	}
	if len(c.Description) == 0 {
		c.Description = document.Empty()
	}
	for i := range c.Modules {
		if len(c.Modules[i].Content) == 0 {
			c.Modules[i].Content = document.Empty()
		}
	}
	return &c, nil
}

// Encode writes c in the current format.
func Encode(w io.Writer, c *Course) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(c))
}

// Validate checks the record fields and the shape of every document.
func Validate(c *Course) error {
	var err error
	if verr := validate.Struct(c); verr != nil {
		err = multierr.Append(err, verr)
	}
	for _, e := range document.Validate(c.Description) {
		err = multierr.Append(err, errors.Wrap(e, "description"))
	}
	for i, m := range c.Modules {
		for _, e := range document.Validate(m.Content) {
			err = multierr.Append(err, errors.Wrapf(e, "modules[%d].content", i))
		}
	}
	return err
}

// Render writes the course as read-only HTML. Every rich-text field is
// rendered through a viewer with the given options.
func Render(w io.Writer, c *Course, opts ...viewer.Option) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<article><h1>%s</h1>", util.EscapeHTML([]byte(c.Title)))
	if err := viewer.New(c.Description, opts...).Render(&buf); err != nil {
		return errors.Wrap(err, "failed to render description")
	}
	for i, m := range c.Modules {
		fmt.Fprintf(&buf, "<section><h2>%s</h2>", util.EscapeHTML([]byte(m.Title)))
		if err := viewer.New(m.Content, opts...).Render(&buf); err != nil {
			return errors.Wrapf(err, "failed to render module %d", i)
		}
		_, _ = buf.WriteString("</section>")
	}
	_, _ = buf.WriteString("</article>")
	_, err := buf.WriteTo(w)
	return errors.WithStack(err)
}

// Package render maps document nodes to HTML. It is the single rendering
// contract shared by the editor and the viewer, so the same node always
// produces the same bytes on both surfaces.
package render

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark/util"

	"github.com/aischool/richdoc/pkg/document"
)

// leafWrappers is applied innermost first.
var leafWrappers = []struct {
	mark document.Mark
	tag  string
}{
	{document.MarkBold, "strong"},
	{document.MarkCode, "code"},
	{document.MarkItalic, "em"},
	{document.MarkUnderline, "u"},
}

// Document renders every block of d.
func Document(w io.Writer, d document.Document) error {
	r := renderer{w: w}
	for _, b := range d {
		r.block(b)
	}
	return r.err
}

// Block renders b and its children.
func Block(w io.Writer, b document.Block) error {
	r := renderer{w: w}
	r.block(b)
	return r.err
}

// Leaf renders a text leaf with its marks.
func Leaf(w io.Writer, t *document.Text) error {
	r := renderer{w: w}
	r.leaf(t)
	return r.err
}

// HTML renders d into a string.
func HTML(d document.Document) string {
	var buf bytes.Buffer
	_ = Document(&buf, d)
	return buf.String()
}

// Tag returns the HTML element used for a block. Unknown and untyped
// blocks render as paragraphs.
func Tag(b document.Block) string {
	switch b := b.(type) {
	case *document.BlockQuote:
		return "blockquote"
	case *document.List:
		if b.Ordered {
			return "ol"
		}
		return "ul"
	case *document.ListItem:
		return "li"
	case *document.Heading:
		if b.Level == 2 {
			return "h2"
		}
		return "h1"
	case *document.Image:
		return "div"
	default:
		return "p"
	}
}

type renderer struct {
	w   io.Writer
	err error
}

func (r *renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

func (r *renderer) writeBytes(b []byte) {
	if r.err != nil {
		return
	}
	_, r.err = r.w.Write(b)
}

func (r *renderer) block(b document.Block) {
	if img, ok := b.(*document.Image); ok {
		r.image(img)
		return
	}

	tag := Tag(b)
	r.open(tag, document.Align(b))
	for _, c := range document.Children(b) {
		switch c := c.(type) {
		case *document.Text:
			r.leaf(c)
		case document.Block:
			r.block(c)
		}
	}
	r.close(tag)
}

// image renders the void container. The placeholder child is emitted as an
// empty span and never rendered as text.
func (r *renderer) image(img *document.Image) {
	r.open("div", document.Align(img))
	r.write(`<div contenteditable="false"><img src="`)
	r.writeBytes(util.EscapeHTML(util.URLEscape([]byte(img.URL), true)))
	r.write(`" alt=""></div><span></span>`)
	r.close("div")
}

func (r *renderer) leaf(t *document.Text) {
	r.write("<span>")
	for i := len(leafWrappers) - 1; i >= 0; i-- {
		if t.Has(leafWrappers[i].mark) {
			r.write("<" + leafWrappers[i].tag + ">")
		}
	}
	r.writeBytes(util.EscapeHTML([]byte(t.Text)))
	for _, wrapper := range leafWrappers {
		if t.Has(wrapper.mark) {
			r.write("</" + wrapper.tag + ">")
		}
	}
	r.write("</span>")
}

func (r *renderer) open(tag, align string) {
	r.write("<" + tag)
	if align != "" {
		r.write(` style="text-align: `)
		r.writeBytes(util.EscapeHTML([]byte(align)))
		r.write(`"`)
	}
	r.write(">")
}

func (r *renderer) close(tag string) {
	r.write("</" + tag + ">")
}

// Package markdown converts Markdown sources into documents. Headings of
// level two and deeper share the heading-two type; nested lists are
// flattened into their outermost list since documents do not nest lists.
package markdown

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/aischool/richdoc/pkg/document"
)

// Converter turns Markdown into documents.
type Converter struct {
	parser parser.Parser
}

func New() *Converter {
	return &Converter{parser: goldmark.DefaultParser()}
}

// Convert parses source and returns the equivalent normalized document.
// A leading frontmatter block is skipped.
func (c *Converter) Convert(source []byte) (document.Document, error) {
	_, body := splitFrontmatter(source)
	return c.convert(body)
}

// ConvertWithFrontmatter is like Convert and also returns the parsed
// frontmatter, which is nil when source has none.
func (c *Converter) ConvertWithFrontmatter(source []byte) (*Frontmatter, document.Document, error) {
	raw, body := splitFrontmatter(source)
	fm, err := parseFrontmatter(raw)
	if err != nil {
		return nil, nil, err
	}
	doc, err := c.convert(body)
	return fm, doc, err
}

func (c *Converter) convert(source []byte) (doc document.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("failed to parse markdown: %v", r)
		}
	}()

	root := c.parser.Parse(text.NewReader(source))
	b := &builder{source: source}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		b.block(n)
	}
	return document.Normalize(b.doc), nil
}

// Convert parses source with a default converter.
func Convert(source []byte) (document.Document, error) {
	return New().Convert(source)
}

type builder struct {
	source []byte
	doc    document.Document
}

func (b *builder) add(blocks ...document.Block) {
	b.doc = append(b.doc, blocks...)
}

func (b *builder) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		t := document.TypeHeadingTwo
		if n.Level == 1 {
			t = document.TypeHeadingOne
		}
		b.add(b.textBlocks(t, n)...)
	case *ast.Paragraph, *ast.TextBlock:
		b.add(b.textBlocks(document.TypeParagraph, n)...)
	case *ast.Blockquote:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				b.add(b.textBlocks(document.TypeBlockQuote, c)...)
			default:
				b.block(c)
			}
		}
	case *ast.List:
		t := document.TypeBulletedList
		if n.IsOrdered() {
			t = document.TypeNumberedList
		}
		var items []document.Node
		var trailing []document.Block
		b.listItems(n, &items, &trailing)
		if len(items) > 0 {
			b.add(document.NewBlock(t, items...))
		}
		b.add(trailing...)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		b.add(b.codeLines(document.TypeParagraph, n)...)
	case *ast.HTMLBlock:
		b.add(b.codeLines(document.TypeParagraph, n)...)
	case *ast.ThematicBreak:
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			b.block(c)
		}
	}
}

// listItems collects the items of list and of any list nested in it.
// Images found in items are returned as trailing blocks.
func (b *builder) listItems(list *ast.List, items *[]document.Node, trailing *[]document.Block) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.List:
				nested = append(nested, c)
			case *ast.Paragraph, *ast.TextBlock:
				for _, blk := range b.textBlocks(document.TypeListItem, c) {
					if blk.Type() == document.TypeImage {
						*trailing = append(*trailing, blk)
						continue
					}
					*items = append(*items, blk)
				}
			default:
				for _, blk := range b.codeLines(document.TypeListItem, c) {
					*items = append(*items, blk)
				}
			}
		}
		for _, l := range nested {
			b.listItems(l, items, trailing)
		}
	}
}

// textBlocks converts the inline content of n into blocks of type t.
// Images split the content since they are blocks of their own.
func (b *builder) textBlocks(t document.Type, n ast.Node) []document.Block {
	var (
		out    []document.Block
		leaves []document.Node
	)
	flush := func() {
		if len(leaves) > 0 {
			out = append(out, document.NewBlock(t, leaves...))
			leaves = nil
		}
	}

	var walk func(n ast.Node, marks document.Marks)
	walk = func(n ast.Node, marks document.Marks) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Text:
				s := string(c.Segment.Value(b.source))
				if c.SoftLineBreak() || c.HardLineBreak() {
					s += " "
				}
				leaves = append(leaves, &document.Text{Text: s, Marks: marks})
			case *ast.String:
				leaves = append(leaves, &document.Text{Text: string(c.Value), Marks: marks})
			case *ast.CodeSpan:
				walk(c, marks.With(document.MarkCode, true))
			case *ast.Emphasis:
				mark := document.MarkItalic
				if c.Level >= 2 {
					mark = document.MarkBold
				}
				walk(c, marks.With(mark, true))
			case *ast.AutoLink:
				leaves = append(leaves, &document.Text{Text: string(c.URL(b.source)), Marks: marks})
			case *ast.Image:
				flush()
				out = append(out, document.NewImage(string(c.Destination)))
			case *ast.RawHTML:
				var sb strings.Builder
				for i := 0; i < c.Segments.Len(); i++ {
					seg := c.Segments.At(i)
					_, _ = sb.Write(seg.Value(b.source))
				}
				leaves = append(leaves, &document.Text{Text: sb.String(), Marks: marks})
			default:
				walk(c, marks)
			}
		}
	}
	walk(n, document.Marks{})
	flush()

	if len(out) == 0 {
		out = append(out, document.NewBlock(t, document.NewText("")))
	}
	return out
}

// codeLines turns every line of a literal block into a block of type t
// with code-marked text.
func (b *builder) codeLines(t document.Type, n ast.Node) []document.Block {
	lines := n.Lines()
	out := make([]document.Block, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(b.source)), "\r\n")
		out = append(out, document.NewBlock(t, document.NewText(line, document.MarkCode)))
	}
	return out
}

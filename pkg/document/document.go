package document

import (
	"encoding/json"
	"strings"
)

// Document is the ordered sequence of blocks holding the content of one
// rich-text field. It is never empty once hydrated.
//
// Document is not safe for concurrent modification. Commands in the editor
// package never modify a Document in place; they return a new one.
type Document []Block

// Empty returns the canonical empty document: one paragraph holding
// one empty leaf.
func Empty() Document {
	return Document{NewParagraph()}
}

// FromString wraps s into a one-paragraph document.
func FromString(s string) Document {
	return Document{NewParagraph(&Text{Text: s})}
}

// Clone deep-copies the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for i, b := range d {
		out[i] = CloneBlock(b)
	}
	return out
}

// CloneNode deep-copies a node.
func CloneNode(n Node) Node {
	switch n := n.(type) {
	case *Text:
		return n.Clone()
	case Block:
		return CloneBlock(n)
	}
	return n
}

// CloneBlock deep-copies a block.
func CloneBlock(b Block) Block {
	var out Block
	switch b := b.(type) {
	case *Paragraph:
		c := *b
		out = &c
	case *Heading:
		c := *b
		out = &c
	case *BlockQuote:
		c := *b
		out = &c
	case *List:
		c := *b
		out = &c
	case *ListItem:
		c := *b
		out = &c
	case *Image:
		c := *b
		out = &c
	case *Unknown:
		c := *b
		out = &c
	default:
		return b
	}
	ob := out.base()
	ob.Children = cloneNodes(ob.Children)
	ob.Extra = deepCopyMap(ob.Extra)
	return out
}

func cloneNodes(in []Node) []Node {
	if in == nil {
		return nil
	}
	out := make([]Node, len(in))
	for i, n := range in {
		out[i] = CloneNode(n)
	}
	return out
}

// WalkFunc is called for every node in document order. Returning false
// skips the children of a block.
type WalkFunc func(n Node, path Path) bool

// Walk visits every node of d depth-first.
func Walk(d Document, fn WalkFunc) {
	for i, b := range d {
		walkNode(b, Path{i}, fn)
	}
}

func walkNode(n Node, path Path, fn WalkFunc) {
	if !fn(n, path) {
		return
	}
	b, ok := n.(Block)
	if !ok {
		return
	}
	for i, c := range Children(b) {
		walkNode(c, path.Child(i), fn)
	}
}

// PlainText returns the text of d, one line per text-bearing block.
// Images contribute nothing.
func PlainText(d Document) string {
	var lines []string
	Walk(d, func(n Node, _ Path) bool {
		b, ok := n.(Block)
		if !ok {
			return false
		}
		if IsVoid(b) {
			return false
		}
		if !hasLeafChildren(b) {
			return true
		}
		lines = append(lines, blockText(b))
		return false
	})
	return strings.Join(lines, "\n")
}

func blockText(b Block) string {
	var buf strings.Builder
	for _, c := range Children(b) {
		switch c := c.(type) {
		case *Text:
			buf.WriteString(c.Text)
		case Block:
			buf.WriteString(blockText(c))
		}
	}
	return buf.String()
}

func hasLeafChildren(b Block) bool {
	for _, c := range Children(b) {
		if _, ok := c.(*Text); ok {
			return true
		}
	}
	return false
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyAny(v)
	}
	return out
}

func deepCopyAny(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopyMap(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = deepCopyAny(x[i])
		}
		return out
	case json.RawMessage:
		cp := make([]byte, len(x))
		copy(cp, x)
		return json.RawMessage(cp)
	default:
		return x
	}
}

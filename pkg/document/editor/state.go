package editor

import (
	"github.com/aischool/richdoc/pkg/document"
)

// State is an immutable editor value: a document, the current selection
// and the marks pending for the next inserted text. Commands take a State
// and return a new one; they never modify their input.
type State struct {
	Doc       document.Document
	Selection *document.Selection
	// Marks are applied to the next inserted text when the selection is
	// collapsed. nil means "use the marks of the leaf at the cursor".
	Marks *document.Marks
}

// Command transforms a State. Commands are no-ops when the state has no
// valid selection or their argument is malformed.
type Command func(State) State

// NewState resolves value into a document and places a collapsed
// selection at its start.
func NewState(value any) State {
	doc := document.Resolve(value)
	s := State{Doc: doc}
	if p, ok := document.Start(doc); ok {
		s.Selection = document.Collapse(p)
	}
	return s
}

// Valid reports whether the selection addresses text outside void nodes.
func (s State) Valid() bool {
	if s.Selection == nil {
		return false
	}
	return s.Doc.ValidPoint(s.Selection.Anchor) && s.Doc.ValidPoint(s.Selection.Focus)
}

// Select replaces the selection. Invalid selections are ignored.
func Select(sel document.Selection) Command {
	return func(s State) State {
		if !s.Doc.ValidPoint(sel.Anchor) || !s.Doc.ValidPoint(sel.Focus) {
			return s
		}
		s.Selection = &sel
		s.Marks = nil
		return s
	}
}

// Deselect removes the selection, as when the surface loses focus.
func Deselect(s State) State {
	s.Selection = nil
	s.Marks = nil
	return s
}

// rangeLeaves returns the leaves between the selection edges in document
// order, together with the portion of each leaf covered by the range.
func rangeLeaves(doc document.Document, sel document.Selection) []leafSpan {
	start, end := sel.Ordered()
	var out []leafSpan
	for _, p := range document.LeafPaths(doc) {
		if p.Compare(start.Path) < 0 || p.Compare(end.Path) > 0 {
			continue
		}
		l, _ := doc.Leaf(p)
		span := leafSpan{path: p, leaf: l, from: 0, to: runeLen(l.Text), void: doc.InVoid(p)}
		if p.Equal(start.Path) {
			span.from = start.Offset
		}
		if p.Equal(end.Path) {
			span.to = end.Offset
		}
		out = append(out, span)
	}
	return out
}

type leafSpan struct {
	path     document.Path
	leaf     *document.Text
	from, to int
	void     bool
}

func (s leafSpan) empty() bool { return s.from >= s.to }

// blockLeaves returns the leaves whose blocks are touched by the selection.
// A range ending at the very start of a later block does not touch it.
func blockLeaves(doc document.Document, sel document.Selection) []leafSpan {
	spans := rangeLeaves(doc, sel)
	if sel.Collapsed() || len(spans) < 2 {
		return spans
	}
	start, end := sel.Ordered()
	endBlock := end.Path.Parent()
	if start.Path.Parent().Equal(endBlock) {
		return spans
	}
	cut := len(spans)
	for cut > 0 && spans[cut-1].path.Parent().Equal(endBlock) {
		if !spans[cut-1].empty() {
			return spans
		}
		cut--
	}
	return spans[:cut]
}

package editor

import (
	"github.com/aischool/richdoc/pkg/document"
)

// currentMarks returns the effective marks at the selection: the pending
// marks for a collapsed selection, otherwise the marks of the first leaf
// with selected text (or the leaf at the selection start).
func currentMarks(s State) document.Marks {
	if s.Selection.Collapsed() && s.Marks != nil {
		return *s.Marks
	}
	spans := rangeLeaves(s.Doc, *s.Selection)
	for _, span := range spans {
		if !span.void && !span.empty() {
			return span.leaf.Marks
		}
	}
	start, _ := s.Selection.Ordered()
	if l, ok := s.Doc.Leaf(start.Path); ok {
		return l.Marks
	}
	return document.Marks{}
}

// IsMarkActive reports whether the effective formatting at the selection
// has mark set.
func IsMarkActive(s State, mark document.Mark) bool {
	if !s.Valid() {
		return false
	}
	return currentMarks(s).Has(mark)
}

// ToggleMark clears mark on the selection when it is active and sets it
// otherwise. On a collapsed selection the change applies to the next
// inserted text.
func ToggleMark(mark document.Mark) Command {
	return func(s State) State {
		if _, ok := document.ParseMark(string(mark)); !ok || !s.Valid() {
			return s
		}
		value := !IsMarkActive(s, mark)

		if s.Selection.Collapsed() {
			marks := currentMarks(s).With(mark, value)
			s.Marks = &marks
			return s
		}

		return setMark(s, mark, value)
	}
}

func setMark(s State, mark document.Mark, value bool) State {
	t := newTree(s.Doc)
	start, end := s.Selection.Ordered()
	backward := !start.Equal(s.Selection.Anchor)

	startLeaf := t.leaf(start.Path)
	endLeaf := t.leaf(end.Path)
	endOff := end.Offset

	// Split the end first so the start path stays valid.
	t.splitLeaf(end.Path, end.Offset)
	startAnchor := document.Anchor{Leaf: startLeaf, Offset: start.Offset}
	if right := t.splitLeaf(start.Path, start.Offset); right != nil {
		startAnchor = document.Anchor{Leaf: right}
		if endLeaf == startLeaf {
			endLeaf = right
			endOff -= start.Offset
		}
	}
	endAnchor := document.Anchor{Leaf: endLeaf, Offset: endOff}

	inRange := false
	for _, ref := range t.leaves() {
		if ref.leaf == startAnchor.Leaf {
			inRange = true
		}
		if inRange && !ref.void {
			covered := true
			if ref.leaf == startAnchor.Leaf && startAnchor.Offset >= runeLen(ref.leaf.Text) && ref.leaf != endAnchor.Leaf {
				covered = false
			}
			if ref.leaf == endAnchor.Leaf && endAnchor.Offset == 0 && ref.leaf != startAnchor.Leaf {
				covered = false
			}
			if covered {
				ref.leaf.Marks = ref.leaf.Marks.With(mark, value)
			}
		}
		if ref.leaf == endAnchor.Leaf {
			break
		}
	}

	first, second := startAnchor, endAnchor
	if backward {
		first, second = endAnchor, startAnchor
	}
	doc, points := t.finish(first, second)
	s.Doc = doc
	s.Selection = &document.Selection{Anchor: points[0], Focus: points[1]}
	s.Marks = nil
	return s
}

package editor

import (
	"github.com/aischool/richdoc/pkg/document"
)

type Direction int

const (
	Left Direction = iota
	Right
)

// Move moves the cursor one character in dir. An expanded selection
// collapses to its edge in that direction. Text inside void blocks is
// skipped.
func Move(dir Direction) Command {
	return func(s State) State {
		if !s.Valid() {
			return s
		}
		if !s.Selection.Collapsed() {
			start, end := s.Selection.Ordered()
			p := start
			if dir == Right {
				p = end
			}
			s.Selection = document.Collapse(p)
			s.Marks = nil
			return s
		}
		p, ok := step(s.Doc, s.Selection.Focus, dir)
		if !ok {
			return s
		}
		s.Selection = document.Collapse(p)
		s.Marks = nil
		return s
	}
}

// Extend moves the focus of the selection one character in dir and keeps
// the anchor in place.
func Extend(dir Direction) Command {
	return func(s State) State {
		if !s.Valid() {
			return s
		}
		p, ok := step(s.Doc, s.Selection.Focus, dir)
		if !ok {
			return s
		}
		s.Selection = &document.Selection{Anchor: s.Selection.Anchor, Focus: p}
		s.Marks = nil
		return s
	}
}

// step returns the point one character away from p. Crossing into another
// leaf of the same block skips the shared edge, so every step moves over
// exactly one character; crossing into another block counts as one step.
func step(doc document.Document, p document.Point, dir Direction) (document.Point, bool) {
	var paths []document.Path
	for _, lp := range document.LeafPaths(doc) {
		if !doc.InVoid(lp) {
			paths = append(paths, lp)
		}
	}
	idx := -1
	for i, lp := range paths {
		if lp.Equal(p.Path) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return p, false
	}
	length := func(i int) int {
		l, _ := doc.Leaf(paths[i])
		return runeLen(l.Text)
	}

	switch dir {
	case Left:
		if p.Offset > 0 {
			return document.Point{Path: p.Path, Offset: p.Offset - 1}, true
		}
		for i := idx - 1; i >= 0; i-- {
			n := length(i)
			if !paths[i].Parent().Equal(p.Path.Parent()) {
				return document.Point{Path: paths[i], Offset: n}, true
			}
			if n > 0 {
				return document.Point{Path: paths[i], Offset: n - 1}, true
			}
		}
	case Right:
		if p.Offset < length(idx) {
			return document.Point{Path: p.Path, Offset: p.Offset + 1}, true
		}
		for i := idx + 1; i < len(paths); i++ {
			n := length(i)
			if !paths[i].Parent().Equal(p.Path.Parent()) {
				return document.Point{Path: paths[i]}, true
			}
			if n > 0 {
				return document.Point{Path: paths[i], Offset: 1}, true
			}
		}
	}
	return p, false
}

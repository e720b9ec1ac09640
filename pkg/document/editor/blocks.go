package editor

import (
	"github.com/aischool/richdoc/pkg/document"
)

// IsBlockActive reports whether a block of type format encloses the
// selected text, either as the block holding it or as one of its
// ancestors.
func IsBlockActive(s State, format document.Type) bool {
	if _, ok := document.ParseType(string(format)); !ok || !s.Valid() {
		return false
	}
	for _, span := range blockLeaves(s.Doc, *s.Selection) {
		for _, b := range s.Doc.Ancestors(span.path) {
			if b.Type() == format {
				return true
			}
		}
	}
	return false
}

// ToggleBlock switches the blocks holding the selection to format, or back
// to paragraphs when format is already active. List formats wrap the
// blocks into a list container. Any list around the selection is removed
// first, so lists never nest.
func ToggleBlock(format document.Type) Command {
	return func(s State) State {
		if _, ok := document.ParseType(string(format)); !ok || format == document.TypeImage || !s.Valid() {
			return s
		}

		active := IsBlockActive(s, format)

		t := newTree(s.Doc)
		anchor := t.anchor(s.Selection.Anchor)
		focus := t.anchor(s.Selection.Focus)

		selected := map[*document.Text]bool{}
		for _, span := range blockLeaves(s.Doc, *s.Selection) {
			selected[t.leaf(span.path)] = true
		}

		t.unwrapLists(selected)

		target := format
		switch {
		case active:
			target = document.TypeParagraph
		case format.IsList():
			target = document.TypeListItem
		}
		retyped := t.retype(selected, target)

		if !active && format.IsList() {
			t.wrap(retyped, format)
		}

		doc, points := t.finish(anchor, focus)
		s.Doc = doc
		s.Selection = &document.Selection{Anchor: points[0], Focus: points[1]}
		return s
	}
}

// unwrapLists lifts the selected children of every list container around
// the selection out of it, splitting the container when only some of its
// items are selected.
func (t *tree) unwrapLists(selected map[*document.Text]bool) {
	document.SetChildren(t.root, unwrapListNodes(document.Children(t.root), selected))
}

func unwrapListNodes(nodes []document.Node, selected map[*document.Text]bool) []document.Node {
	out := make([]document.Node, 0, len(nodes))
	for _, n := range nodes {
		b, ok := n.(document.Block)
		if !ok || !containsSelected(b, selected) {
			out = append(out, n)
			continue
		}

		document.SetChildren(b, unwrapListNodes(document.Children(b), selected))

		list, ok := b.(*document.List)
		if !ok {
			out = append(out, b)
			continue
		}

		var before, lifted, after []document.Node
		for _, c := range document.Children(list) {
			switch {
			case containsSelectedNode(c, selected):
				lifted = append(lifted, c)
			case len(lifted) == 0:
				before = append(before, c)
			default:
				after = append(after, c)
			}
		}
		if len(before) > 0 {
			head := document.CloneBlock(list)
			document.SetChildren(head, before)
			out = append(out, head)
		}
		out = append(out, lifted...)
		if len(after) > 0 {
			tail := document.CloneBlock(list)
			document.SetChildren(tail, after)
			out = append(out, tail)
		}
	}
	return out
}

func containsSelectedNode(n document.Node, selected map[*document.Text]bool) bool {
	switch n := n.(type) {
	case *document.Text:
		return selected[n]
	case document.Block:
		return containsSelected(n, selected)
	}
	return false
}

func containsSelected(b document.Block, selected map[*document.Text]bool) bool {
	for _, c := range document.Children(b) {
		if containsSelectedNode(c, selected) {
			return true
		}
	}
	return false
}

// retype sets the type of the lowest blocks holding selected leaves.
// Void blocks keep their type. It returns the paths of the new blocks.
func (t *tree) retype(selected map[*document.Text]bool, target document.Type) []document.Path {
	var paths []document.Path
	seen := map[string]bool{}
	for _, ref := range t.leaves() {
		if !selected[ref.leaf] || ref.void {
			continue
		}
		p := ref.path.Parent()
		if len(p) == 0 || seen[p.String()] {
			continue
		}
		seen[p.String()] = true

		b := t.block(p)
		if _, ok := b.(*document.List); ok {
			continue
		}
		t.replace(p, document.Retype(b, target))
		paths = append(paths, p)
	}
	return paths
}

// wrap puts the blocks at paths into a new list container. Blocks sharing
// a parent are wrapped together, together with anything between them.
func (t *tree) wrap(paths []document.Path, format document.Type) {
	type span struct {
		parent   document.Path
		from, to int
	}
	var spans []*span
	for _, p := range paths {
		parent, i := p.Parent(), p[len(p)-1]
		var cur *span
		for _, s := range spans {
			if s.parent.Equal(parent) {
				cur = s
			}
		}
		if cur == nil {
			spans = append(spans, &span{parent: parent, from: i, to: i})
			continue
		}
		cur.from = min(cur.from, i)
		cur.to = max(cur.to, i)
	}

	// Wrap later spans first so the paths of earlier ones stay valid.
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		parent := t.block(s.parent)
		children := document.Children(parent)
		items := append([]document.Node(nil), children[s.from:s.to+1]...)
		list := document.NewBlock(format, items...)

		out := make([]document.Node, 0, len(children)-len(items)+1)
		out = append(out, children[:s.from]...)
		out = append(out, list)
		out = append(out, children[s.to+1:]...)
		document.SetChildren(parent, out)
	}
}

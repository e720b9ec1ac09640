package editor

import (
	"strings"

	"github.com/aischool/richdoc/pkg/document"
)

// InsertText inserts text at the selection, replacing selected content.
// Pending marks are applied to the inserted text and then cleared.
func InsertText(text string) Command {
	return func(s State) State {
		if text == "" || !s.Valid() {
			return s
		}
		t, at := deleteSelection(s)

		l := at.Leaf
		if s.Marks != nil && *s.Marks != l.Marks {
			p, _ := t.pathOf(l)
			inserted := &document.Text{Text: text, Marks: *s.Marks}
			if right := t.splitLeaf(p, at.Offset); right != nil || at.Offset > 0 {
				t.insert(p.Parent(), p[len(p)-1]+1, inserted)
			} else {
				t.insert(p.Parent(), p[len(p)-1], inserted)
			}
			at = document.Anchor{Leaf: inserted, Offset: runeLen(text)}
		} else {
			left, right := splitText(l.Text, at.Offset)
			l.Text = left + text + right
			at.Offset += runeLen(text)
		}

		return s.finish(t, at, at)
	}
}

// InsertBreak splits the block at the cursor, as the Enter key does.
func InsertBreak(s State) State {
	if !s.Valid() {
		return s
	}
	t, at := deleteSelection(s)
	p, _ := t.pathOf(at.Leaf)
	head := t.splitBlock(p, at.Offset)
	if head == nil {
		return s
	}
	cursor := document.Anchor{Leaf: head}
	return s.finish(t, cursor, cursor)
}

// DeleteBackward removes the character before the cursor, or the selected
// content. At the start of a block the block is merged into the previous
// one; a void block before the cursor is removed as a whole.
func DeleteBackward(s State) State {
	if !s.Valid() {
		return s
	}
	if !s.Selection.Collapsed() {
		t, at := deleteSelection(s)
		return s.finish(t, at, at)
	}

	t := newTree(s.Doc)
	at := t.anchor(s.Selection.Anchor)
	if at.Offset > 0 {
		left, right := splitText(at.Leaf.Text, at.Offset)
		r := []rune(left)
		at.Leaf.Text = string(r[:len(r)-1]) + right
		at.Offset--
		return s.finish(t, at, at)
	}

	leaves := t.leaves()
	idx := indexOf(leaves, at.Leaf)
	if idx <= 0 {
		return s
	}
	cur, prev := leaves[idx], leaves[idx-1]

	switch {
	case prev.void:
		t.remove(prev.path.Parent())
	case prev.path.Parent().Equal(cur.path.Parent()):
		r := []rune(prev.leaf.Text)
		if len(r) > 0 {
			prev.leaf.Text = string(r[:len(r)-1])
		}
	default:
		mergeBlocks(t, prev.path.Parent(), cur.path.Parent())
		at = document.Anchor{Leaf: prev.leaf, Offset: runeLen(prev.leaf.Text)}
	}
	return s.finish(t, at, at)
}

// mergeBlocks moves the children of the block at from to the end of the
// block at into and removes the emptied block.
func mergeBlocks(t *tree, into, from document.Path) {
	dst, src := t.block(into), t.block(from)
	document.SetChildren(dst, append(document.Children(dst), document.Children(src)...))
	t.remove(from)
}

func indexOf(leaves []leafRef, l *document.Text) int {
	for i, ref := range leaves {
		if ref.leaf == l {
			return i
		}
	}
	return -1
}

// deleteSelection returns a working copy of the document with the selected
// content removed and the anchor of the collapsed cursor.
func deleteSelection(s State) (*tree, document.Anchor) {
	t := newTree(s.Doc)
	start, end := s.Selection.Ordered()
	startLeaf, endLeaf := t.leaf(start.Path), t.leaf(end.Path)
	at := document.Anchor{Leaf: startLeaf, Offset: start.Offset}
	if s.Selection.Collapsed() {
		return t, at
	}

	if startLeaf == endLeaf {
		left, _ := splitText(startLeaf.Text, start.Offset)
		_, right := splitText(startLeaf.Text, end.Offset)
		startLeaf.Text = left + right
		return t, at
	}

	startText, _ := splitText(startLeaf.Text, start.Offset)
	startLeaf.Text = startText
	_, endText := splitText(endLeaf.Text, end.Offset)
	endLeaf.Text = endText

	startBlock := start.Path.Parent()
	endBlock := end.Path.Parent()

	// Remove the leaves strictly between the edges and the blocks they leave
	// empty, deepest and last first so earlier paths stay valid.
	var doomed []document.Path
	blocks := map[string]document.Path{}
	for _, ref := range t.leaves() {
		if ref.path.Compare(start.Path) <= 0 || ref.path.Compare(end.Path) >= 0 {
			continue
		}
		parent := ref.path.Parent()
		switch {
		case parent.Equal(startBlock), parent.Equal(endBlock):
			doomed = append(doomed, ref.path)
		default:
			blocks[parent.String()] = parent
		}
	}
	for _, p := range blocks {
		doomed = append(doomed, p)
	}
	sortPathsDesc(doomed)
	doomed = dropNested(doomed)
	for _, p := range doomed {
		t.remove(p)
	}

	if !startBlock.Equal(endBlock) {
		sp, _ := t.pathOf(startLeaf)
		ep, _ := t.pathOf(endLeaf)
		mergeBlocks(t, sp.Parent(), ep.Parent())
	}
	return t, at
}

// sortPathsDesc orders paths so that later and deeper paths come first.
func sortPathsDesc(paths []document.Path) {
	for i := 1; i < len(paths); i++ {
		for j := i; j > 0 && paths[j].Compare(paths[j-1]) > 0; j-- {
			paths[j], paths[j-1] = paths[j-1], paths[j]
		}
	}
}

// dropNested removes paths that lie below another path in the list.
func dropNested(paths []document.Path) []document.Path {
	out := paths[:0]
	for _, p := range paths {
		nested := false
		for _, q := range paths {
			if len(q) < len(p) && q.Equal(p[:len(q)]) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, p)
		}
	}
	return out
}

// InsertData inserts pasted or dropped text. A text that is an image URL
// becomes an image, anything else is inserted line by line.
func InsertData(text string) Command {
	return func(s State) State {
		if IsImageURL(text) {
			return InsertImage(strings.TrimSpace(text))(s)
		}
		text = strings.ReplaceAll(text, "\r\n", "\n")
		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				s = InsertBreak(s)
			}
			s = InsertText(line)(s)
		}
		return s
	}
}

func (s State) finish(t *tree, anchor, focus document.Anchor) State {
	doc, points := t.finish(anchor, focus)
	s.Doc = doc
	s.Selection = &document.Selection{Anchor: points[0], Focus: points[1]}
	s.Marks = nil
	return s
}

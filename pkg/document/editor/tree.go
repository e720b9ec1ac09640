package editor

import (
	"github.com/aischool/richdoc/pkg/document"
)

// tree is a mutable working copy of a document. The document blocks are
// held as children of a synthetic root so that paths index the same way as
// document paths and every level is a []document.Node.
type tree struct {
	root *document.Unknown
}

func newTree(d document.Document) *tree {
	d = d.Clone()
	children := make([]document.Node, len(d))
	for i, b := range d {
		children[i] = b
	}
	return &tree{root: &document.Unknown{BlockBase: document.BlockBase{Children: children}}}
}

func (t *tree) document() document.Document {
	children := document.Children(t.root)
	out := make(document.Document, 0, len(children))
	for _, c := range children {
		switch c := c.(type) {
		case document.Block:
			out = append(out, c)
		case *document.Text:
			out = append(out, document.NewParagraph(c))
		}
	}
	return out
}

func (t *tree) get(p document.Path) document.Node {
	var n document.Node = t.root
	for _, i := range p {
		b, ok := n.(document.Block)
		if !ok {
			return nil
		}
		children := document.Children(b)
		if i < 0 || i >= len(children) {
			return nil
		}
		n = children[i]
	}
	return n
}

func (t *tree) block(p document.Path) document.Block {
	b, _ := t.get(p).(document.Block)
	return b
}

func (t *tree) leaf(p document.Path) *document.Text {
	l, _ := t.get(p).(*document.Text)
	return l
}

// replace swaps the node at p.
func (t *tree) replace(p document.Path, n document.Node) {
	parent := t.block(p.Parent())
	children := document.Children(parent)
	children[p[len(p)-1]] = n
}

// insert places nodes into the children of the block at parent starting
// at index i.
func (t *tree) insert(parent document.Path, i int, nodes ...document.Node) {
	b := t.block(parent)
	children := document.Children(b)
	out := make([]document.Node, 0, len(children)+len(nodes))
	out = append(out, children[:i]...)
	out = append(out, nodes...)
	out = append(out, children[i:]...)
	document.SetChildren(b, out)
}

func (t *tree) remove(p document.Path) {
	b := t.block(p.Parent())
	children := document.Children(b)
	i := p[len(p)-1]
	out := make([]document.Node, 0, len(children)-1)
	out = append(out, children[:i]...)
	out = append(out, children[i+1:]...)
	document.SetChildren(b, out)
}

// leaves returns every leaf with its path, in document order.
func (t *tree) leaves() []leafRef {
	var out []leafRef
	var walk func(n document.Node, p document.Path)
	walk = func(n document.Node, p document.Path) {
		switch n := n.(type) {
		case *document.Text:
			out = append(out, leafRef{path: p, leaf: n, void: t.inVoid(p)})
		case document.Block:
			for i, c := range document.Children(n) {
				walk(c, p.Child(i))
			}
		}
	}
	for i, c := range document.Children(t.root) {
		walk(c, document.Path{i})
	}
	return out
}

func (t *tree) inVoid(p document.Path) bool {
	for i := 1; i < len(p); i++ {
		if document.IsVoid(t.get(p[:i])) {
			return true
		}
	}
	return false
}

// pathOf finds the current path of a leaf.
func (t *tree) pathOf(l *document.Text) (document.Path, bool) {
	for _, ref := range t.leaves() {
		if ref.leaf == l {
			return ref.path, true
		}
	}
	return nil, false
}

// anchor pins a point of the working copy to its leaf.
func (t *tree) anchor(p document.Point) document.Anchor {
	l := t.leaf(p.Path)
	return document.Anchor{Leaf: l, Offset: p.Offset}
}

// finish normalizes the working copy and maps the anchors back to points.
func (t *tree) finish(anchors ...document.Anchor) (document.Document, []document.Point) {
	doc := t.document()
	points := make([]document.Point, len(anchors))
	for i, a := range anchors {
		p, ok := t.pathOf(a.Leaf)
		if !ok {
			continue
		}
		points[i] = document.Point{Path: p, Offset: a.Offset}
	}
	return document.NormalizePoints(doc, points...)
}

type leafRef struct {
	path document.Path
	leaf *document.Text
	void bool
}

func runeLen(s string) int { return len([]rune(s)) }

// splitText splits s at the rune offset off.
func splitText(s string, off int) (string, string) {
	r := []rune(s)
	if off < 0 {
		off = 0
	}
	if off > len(r) {
		off = len(r)
	}
	return string(r[:off]), string(r[off:])
}

// splitLeaf splits the leaf at p at off and returns the right half, which
// is inserted right after the left one. It returns nil when off is at
// either edge of the leaf.
func (t *tree) splitLeaf(p document.Path, off int) *document.Text {
	l := t.leaf(p)
	if l == nil || off <= 0 || off >= runeLen(l.Text) {
		return nil
	}
	left, right := splitText(l.Text, off)
	r := l.Clone()
	r.Text = right
	l.Text = left
	t.insert(p.Parent(), p[len(p)-1]+1, r)
	return r
}

// splitBlock splits the lowest block holding the leaf at p at off. The
// new block holds everything after the point and is inserted right after
// the original block. It returns the first leaf of the new block.
func (t *tree) splitBlock(p document.Path, off int) *document.Text {
	l := t.leaf(p)
	blockPath := p.Parent()
	b := t.block(blockPath)
	if l == nil || b == nil || len(blockPath) == 0 {
		return nil
	}

	left, right := splitText(l.Text, off)
	l.Text = left
	head := l.Clone()
	head.Text = right

	children := document.Children(b)
	i := p[len(p)-1]
	tail := append([]document.Node{head}, children[i+1:]...)
	document.SetChildren(b, append([]document.Node(nil), children[:i+1]...))

	// The new block keeps the type, alignment and extra fields of b.
	nb := document.CloneBlock(b)
	document.SetChildren(nb, tail)

	t.insert(blockPath.Parent(), blockPath[len(blockPath)-1]+1, nb)
	return head
}

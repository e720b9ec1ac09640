package document

// Normalize returns a copy of d satisfying the structural invariants:
//
//   - the document has at least one block,
//   - every block has at least one child,
//   - list containers hold only list items and are never empty,
//   - images hold exactly one empty placeholder leaf,
//   - adjacent leaves with identical marks are merged and empty leaves
//     next to other leaves are removed.
//
// d itself is not modified.
func Normalize(d Document) Document {
	out, _ := NormalizePoints(d)
	return out
}

// NormalizePoints normalizes d like Normalize and maps the given points,
// which must be valid in d, to the equivalent positions in the result.
// Points that do not address a leaf of d are moved to the document start.
func NormalizePoints(d Document, points ...Point) (Document, []Point) {
	doc := d.Clone()
	anchors := make([]Anchor, len(points))
	for i, p := range points {
		anchors[i] = doc.Anchor(p)
	}

	n := &normalizer{remap: map[*Text]Anchor{}}
	doc = n.blocks(doc)
	if len(doc) == 0 {
		doc = Empty()
	}

	return doc, n.resolve(doc, anchors)
}

// Anchor pins a point to a leaf by identity, which survives structural
// changes that move the leaf to a different path.
type Anchor struct {
	Leaf   *Text
	Offset int
}

// Anchor converts p into an Anchor. The zero Anchor is returned when p does
// not address a leaf.
func (d Document) Anchor(p Point) Anchor {
	t, ok := d.Leaf(p.Path)
	if !ok {
		return Anchor{}
	}
	return Anchor{Leaf: t, Offset: p.Offset}
}

// Points converts anchors back to points in d. Anchors whose leaf is no
// longer part of d resolve to the document start.
func (d Document) Points(anchors ...Anchor) []Point {
	index := map[*Text]Path{}
	for _, p := range LeafPaths(d) {
		t, _ := d.Leaf(p)
		index[t] = p
	}
	start, _ := Start(d)
	out := make([]Point, len(anchors))
	for i, a := range anchors {
		p, ok := index[a.Leaf]
		if !ok || a.Leaf == nil {
			out[i] = start
			continue
		}
		out[i] = Point{Path: p, Offset: clampOffset(a.Leaf, a.Offset)}
	}
	return out
}

func clampOffset(t *Text, off int) int {
	if off < 0 {
		return 0
	}
	if l := len([]rune(t.Text)); off > l {
		return l
	}
	return off
}

type normalizer struct {
	// remap records leaves that were merged or dropped and where their
	// content went.
	remap map[*Text]Anchor
}

func (n *normalizer) resolve(d Document, anchors []Anchor) []Point {
	for i, a := range anchors {
		for a.Leaf != nil {
			next, ok := n.remap[a.Leaf]
			if !ok {
				break
			}
			a = Anchor{Leaf: next.Leaf, Offset: next.Offset + a.Offset}
		}
		anchors[i] = a
	}
	return d.Points(anchors...)
}

func (n *normalizer) blocks(in []Block) []Block {
	out := make([]Block, 0, len(in))
	for _, b := range in {
		if b = n.block(b); b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (n *normalizer) block(b Block) Block {
	base := b.base()

	switch b := b.(type) {
	case *Image:
		placeholder := &Text{}
		for _, c := range base.Children {
			n.drop(c, placeholder)
		}
		base.Children = []Node{placeholder}
		return b
	case *List:
		items := make([]Node, 0, len(base.Children))
		for _, c := range base.Children {
			switch c := c.(type) {
			case *Text:
				items = append(items, &ListItem{BlockBase: BlockBase{Children: []Node{c}}})
			case *ListItem, *Image:
				items = append(items, c)
			case Block:
				items = append(items, Retype(c, TypeListItem))
			}
		}
		base.Children = n.children(items)
		if len(base.Children) == 0 {
			return nil
		}
		return b
	}

	base.Children = n.children(base.Children)
	if len(base.Children) == 0 {
		base.Children = []Node{&Text{}}
	}
	return b
}

// drop records that every leaf below c now lives in target at offset 0.
func (n *normalizer) drop(c Node, target *Text) {
	switch c := c.(type) {
	case *Text:
		n.remap[c] = Anchor{Leaf: target}
	case Block:
		for _, cc := range c.base().Children {
			n.drop(cc, target)
		}
	}
}

func (n *normalizer) children(in []Node) []Node {
	out := make([]Node, 0, len(in))
	var run []*Text
	flush := func() {
		for _, t := range n.leafRun(run) {
			out = append(out, t)
		}
		run = run[:0]
	}
	for _, c := range in {
		switch c := c.(type) {
		case *Text:
			run = append(run, c)
		case Block:
			flush()
			if c = n.block(c); c != nil {
				out = append(out, c)
			}
		}
	}
	flush()
	return out
}

// leafRun normalizes a run of adjacent leaves.
func (n *normalizer) leafRun(run []*Text) []*Text {
	if len(run) == 0 {
		return nil
	}

	kept := make([]*Text, 0, len(run))
	for i, t := range run {
		if t.Text != "" || len(t.Extra) > 0 {
			kept = append(kept, t)
			continue
		}
		// Keep one empty leaf when the whole run is empty.
		if len(kept) == 0 && !hasNonEmpty(run[i+1:]) {
			kept = append(kept, t)
			continue
		}
		if len(kept) > 0 {
			prev := kept[len(kept)-1]
			n.remap[t] = Anchor{Leaf: prev, Offset: len([]rune(prev.Text))}
		} else {
			n.remap[t] = Anchor{Leaf: firstNonEmpty(run[i+1:])}
		}
	}

	merged := make([]*Text, 1, len(kept))
	merged[0] = kept[0]
	for _, t := range kept[1:] {
		prev := merged[len(merged)-1]
		if sameFormat(prev, t) {
			n.remap[t] = Anchor{Leaf: prev, Offset: len([]rune(prev.Text))}
			prev.Text += t.Text
			continue
		}
		merged = append(merged, t)
	}
	return merged
}

func hasNonEmpty(run []*Text) bool {
	return firstNonEmpty(run) != nil
}

func firstNonEmpty(run []*Text) *Text {
	for _, t := range run {
		if t.Text != "" || len(t.Extra) > 0 {
			return t
		}
	}
	return nil
}

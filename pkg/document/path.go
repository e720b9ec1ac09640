package document

import (
	"fmt"
	"strings"
)

// Path addresses a node by child indexes starting at the document root.
type Path []int

// Child returns a new path pointing at the i-th child of p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Parent returns the path of the parent node. The parent of a top-level
// block is the empty path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return append(Path(nil), p[:len(p)-1]...)
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Compare orders paths in document order. An ancestor sorts before
// its descendants.
func (p Path) Compare(o Path) int {
	for i := 0; i < len(p) && i < len(o); i++ {
		switch {
		case p[i] < o[i]:
			return -1
		case p[i] > o[i]:
			return 1
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprintf("[%d]", v)
	}
	return strings.Join(parts, ".children")
}

// Get returns the node at p, or nil when p does not address a node.
func (d Document) Get(p Path) Node {
	if len(p) == 0 || p[0] < 0 || p[0] >= len(d) {
		return nil
	}
	var n Node = d[p[0]]
	for _, i := range p[1:] {
		b, ok := n.(Block)
		if !ok {
			return nil
		}
		children := Children(b)
		if i < 0 || i >= len(children) {
			return nil
		}
		n = children[i]
	}
	return n
}

// Leaf returns the text leaf at p.
func (d Document) Leaf(p Path) (*Text, bool) {
	t, ok := d.Get(p).(*Text)
	return t, ok
}

// Ancestors returns the blocks enclosing the node at p, outermost first.
func (d Document) Ancestors(p Path) []Block {
	var out []Block
	for i := 1; i < len(p); i++ {
		b, ok := d.Get(p[:i]).(Block)
		if !ok {
			return out
		}
		out = append(out, b)
	}
	return out
}

// Point is a position inside a text leaf.
type Point struct {
	Path   Path
	Offset int
}

func (p Point) Equal(o Point) bool {
	return p.Offset == o.Offset && p.Path.Equal(o.Path)
}

// Compare orders points in document order.
func (p Point) Compare(o Point) int {
	if c := p.Path.Compare(o.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < o.Offset:
		return -1
	case p.Offset > o.Offset:
		return 1
	}
	return 0
}

// Selection is an immutable range between an anchor and a focus point.
type Selection struct {
	Anchor Point
	Focus  Point
}

// Collapse returns a collapsed selection at p.
func Collapse(p Point) *Selection {
	return &Selection{Anchor: p, Focus: p}
}

func (s Selection) Collapsed() bool { return s.Anchor.Equal(s.Focus) }

// Ordered returns the selection edges in document order.
func (s Selection) Ordered() (start, end Point) {
	if s.Anchor.Compare(s.Focus) <= 0 {
		return s.Anchor, s.Focus
	}
	return s.Focus, s.Anchor
}

// LeafPaths returns the paths of all text leaves of d in document order.
func LeafPaths(d Document) []Path {
	var out []Path
	Walk(d, func(n Node, path Path) bool {
		if _, ok := n.(*Text); ok {
			out = append(out, path)
		}
		return true
	})
	return out
}

// Start returns the first point of d, skipping void blocks when possible.
func Start(d Document) (Point, bool) {
	paths := LeafPaths(d)
	for _, p := range paths {
		if !d.InVoid(p) {
			return Point{Path: p}, true
		}
	}
	return Point{}, false
}

// End returns the last point of d, skipping void blocks when possible.
func End(d Document) (Point, bool) {
	paths := LeafPaths(d)
	for i := len(paths) - 1; i >= 0; i-- {
		if d.InVoid(paths[i]) {
			continue
		}
		t, _ := d.Leaf(paths[i])
		return Point{Path: paths[i], Offset: len([]rune(t.Text))}, true
	}
	return Point{}, false
}

// InVoid reports whether p lies inside a void block.
func (d Document) InVoid(p Path) bool {
	for _, b := range d.Ancestors(p) {
		if IsVoid(b) {
			return true
		}
	}
	return false
}

// ValidPoint reports whether p addresses a leaf outside void blocks with an
// offset inside the leaf text.
func (d Document) ValidPoint(p Point) bool {
	t, ok := d.Leaf(p.Path)
	if !ok || d.InVoid(p.Path) {
		return false
	}
	return p.Offset >= 0 && p.Offset <= len([]rune(t.Text))
}

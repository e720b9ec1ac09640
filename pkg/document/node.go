package document

// Type is a block type tag as persisted in the wire format.
type Type string

const (
	TypeParagraph    Type = "paragraph"
	TypeHeadingOne   Type = "heading-one"
	TypeHeadingTwo   Type = "heading-two"
	TypeBlockQuote   Type = "block-quote"
	TypeBulletedList Type = "bulleted-list"
	TypeNumberedList Type = "numbered-list"
	TypeListItem     Type = "list-item"
	TypeImage        Type = "image"
)

var knownTypes = map[Type]struct{}{
	TypeParagraph:    {},
	TypeHeadingOne:   {},
	TypeHeadingTwo:   {},
	TypeBlockQuote:   {},
	TypeBulletedList: {},
	TypeNumberedList: {},
	TypeListItem:     {},
	TypeImage:        {},
}

// ParseType reports whether s names a type from the closed set.
func ParseType(s string) (Type, bool) {
	_, ok := knownTypes[Type(s)]
	return Type(s), ok
}

// IsList reports whether t is one of the list container types.
func (t Type) IsList() bool {
	return t == TypeBulletedList || t == TypeNumberedList
}

// Node is either a *Text leaf or a Block.
type Node interface {
	isNode()
}

// Block is a structural content unit. The concrete types are
// *Paragraph, *Heading, *BlockQuote, *List, *ListItem, *Image and *Unknown.
type Block interface {
	Node
	Type() Type
	base() *BlockBase
}

// BlockBase holds the fields shared by all blocks.
type BlockBase struct {
	Align    string
	Children []Node
	// Extra keeps fields this package does not model so that
	// persisted data round-trips unchanged.
	Extra map[string]any
}

func (b *BlockBase) base() *BlockBase { return b }
func (*BlockBase) isNode()            {}

type Paragraph struct{ BlockBase }

func (*Paragraph) Type() Type { return TypeParagraph }

// Heading has Level 1 (heading-one) or 2 (heading-two).
type Heading struct {
	BlockBase
	Level int
}

func (h *Heading) Type() Type {
	if h.Level == 2 {
		return TypeHeadingTwo
	}
	return TypeHeadingOne
}

type BlockQuote struct{ BlockBase }

func (*BlockQuote) Type() Type { return TypeBlockQuote }

// List is a list container; its children are *ListItem blocks.
type List struct {
	BlockBase
	Ordered bool
}

func (l *List) Type() Type {
	if l.Ordered {
		return TypeNumberedList
	}
	return TypeBulletedList
}

type ListItem struct{ BlockBase }

func (*ListItem) Type() Type { return TypeListItem }

// Image is a void block. Its only child is an empty placeholder leaf.
type Image struct {
	BlockBase
	URL string
}

func (*Image) Type() Type { return TypeImage }

// Unknown is a block whose tag is outside the closed set.
// It renders as a paragraph.
type Unknown struct {
	BlockBase
	Tag string
}

func (u *Unknown) Type() Type { return Type(u.Tag) }

// Children returns the children of b.
func Children(b Block) []Node { return b.base().Children }

// SetChildren replaces the children of b.
func SetChildren(b Block, children []Node) { b.base().Children = children }

// Align returns the alignment hint of b.
func Align(b Block) string { return b.base().Align }

// IsVoid reports whether n carries no editable text.
func IsVoid(n Node) bool {
	_, ok := n.(*Image)
	return ok
}

// NewBlock creates an empty block of type t carrying the given children.
// Tags outside the closed set produce an *Unknown block.
func NewBlock(t Type, children ...Node) Block {
	base := BlockBase{Children: children}
	switch t {
	case TypeParagraph:
		return &Paragraph{BlockBase: base}
	case TypeHeadingOne:
		return &Heading{BlockBase: base, Level: 1}
	case TypeHeadingTwo:
		return &Heading{BlockBase: base, Level: 2}
	case TypeBlockQuote:
		return &BlockQuote{BlockBase: base}
	case TypeBulletedList:
		return &List{BlockBase: base}
	case TypeNumberedList:
		return &List{BlockBase: base, Ordered: true}
	case TypeListItem:
		return &ListItem{BlockBase: base}
	case TypeImage:
		return &Image{BlockBase: BlockBase{Children: []Node{&Text{}}}}
	default:
		return &Unknown{BlockBase: base, Tag: string(t)}
	}
}

// Retype returns a block of type t that keeps the alignment, children and
// extra fields of b. Images cannot be produced this way since they need a URL.
func Retype(b Block, t Type) Block {
	if t == TypeImage {
		return b
	}
	out := NewBlock(t)
	ob := out.base()
	src := b.base()
	ob.Align = src.Align
	ob.Children = src.Children
	ob.Extra = src.Extra
	return out
}

// NewParagraph is a convenience constructor for a paragraph of leaves.
func NewParagraph(children ...Node) *Paragraph {
	if len(children) == 0 {
		children = []Node{&Text{}}
	}
	return &Paragraph{BlockBase: BlockBase{Children: children}}
}

// NewImage creates a void image block.
func NewImage(url string) *Image {
	return &Image{BlockBase: BlockBase{Children: []Node{&Text{}}}, URL: url}
}

package document

// Mark is a character-level formatting flag.
type Mark string

const (
	MarkBold      Mark = "bold"
	MarkItalic    Mark = "italic"
	MarkUnderline Mark = "underline"
	MarkCode      Mark = "code"
)

// AllMarks lists the marks in rendering order, innermost first.
var AllMarks = []Mark{MarkBold, MarkCode, MarkItalic, MarkUnderline}

// ParseMark reports whether s names a known mark.
func ParseMark(s string) (Mark, bool) {
	for _, m := range AllMarks {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Marks is the set of formatting flags carried by a leaf.
type Marks struct {
	Bold      bool
	Italic    bool
	Underline bool
	Code      bool
}

func (m Marks) Has(mark Mark) bool {
	switch mark {
	case MarkBold:
		return m.Bold
	case MarkItalic:
		return m.Italic
	case MarkUnderline:
		return m.Underline
	case MarkCode:
		return m.Code
	}
	return false
}

// With returns a copy of m with mark set to v. Unknown marks are ignored.
func (m Marks) With(mark Mark, v bool) Marks {
	switch mark {
	case MarkBold:
		m.Bold = v
	case MarkItalic:
		m.Italic = v
	case MarkUnderline:
		m.Underline = v
	case MarkCode:
		m.Code = v
	}
	return m
}

// Text is a leaf node.
type Text struct {
	Text string
	Marks
	// Unset holds the marks stored explicitly as false. They are encoded
	// back as false unless the mark has been set since.
	Unset Marks
	Extra map[string]any
}

func (*Text) isNode() {}

// NewText creates a leaf with the given marks set.
func NewText(s string, marks ...Mark) *Text {
	t := &Text{Text: s}
	for _, m := range marks {
		t.Marks = t.Marks.With(m, true)
	}
	return t
}

// Clone returns a copy of t.
func (t *Text) Clone() *Text {
	out := *t
	out.Extra = deepCopyMap(t.Extra)
	return &out
}

// sameFormat reports whether two leaves can be merged.
func sameFormat(a, b *Text) bool {
	return a.Marks == b.Marks && len(a.Extra) == 0 && len(b.Extra) == 0
}

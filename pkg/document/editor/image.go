package editor

import (
	"net/url"
	"path"
	"strings"

	"github.com/aischool/richdoc/pkg/document"
)

// InsertImage inserts a void image block at the cursor and an empty
// paragraph right after it, which receives the cursor. Images live at the
// top level of the document: the block holding the cursor is split when the
// cursor is inside it, and a list around the cursor is left whole with the
// image placed after it.
func InsertImage(rawURL string) Command {
	return func(s State) State {
		if rawURL == "" || !s.Valid() {
			return s
		}
		t, at := deleteSelection(s)
		p, ok := t.pathOf(at.Leaf)
		if !ok {
			return s
		}

		top := p[0]
		at0, atEnd := blockEdges(t, p, at.Offset)
		var index int
		switch {
		case containsList(t, p):
			index = top + 1
		case atEnd:
			index = top + 1
		case at0:
			index = top
		case len(p) == 2:
			t.splitBlock(p, at.Offset)
			index = top + 1
		default:
			index = top + 1
		}

		cursor := document.NewText("")
		t.insert(nil, index, document.NewImage(rawURL), document.NewParagraph(cursor))
		c := document.Anchor{Leaf: cursor}
		return s.finish(t, c, c)
	}
}

// blockEdges reports whether the point is at the start or at the end of the
// top-level block that holds it.
func blockEdges(t *tree, p document.Path, off int) (start, end bool) {
	start, end = true, true
	seen := false
	for _, ref := range t.leaves() {
		if ref.path[0] != p[0] {
			continue
		}
		n := runeLen(ref.leaf.Text)
		switch {
		case ref.path.Equal(p):
			seen = true
			if off > 0 {
				start = false
			}
			if off < n {
				end = false
			}
		case !seen && n > 0:
			start = false
		case seen && n > 0:
			end = false
		}
	}
	return start, end
}

func containsList(t *tree, p document.Path) bool {
	for i := 1; i < len(p); i++ {
		if b := t.block(p[:i]); b != nil && b.Type().IsList() {
			return true
		}
	}
	return false
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

// IsImageURL reports whether text is an absolute URL whose path ends in a
// known image extension.
func IsImageURL(text string) bool {
	u, err := url.Parse(strings.TrimSpace(text))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

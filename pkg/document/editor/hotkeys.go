package editor

import (
	"strings"

	"github.com/aischool/richdoc/pkg/document"
)

// Hotkeys maps key combinations to the mark they toggle. "mod" stands for
// ctrl or cmd.
var Hotkeys = map[string]document.Mark{
	"mod+b": document.MarkBold,
	"mod+i": document.MarkItalic,
	"mod+u": document.MarkUnderline,
	"mod+`": document.MarkCode,
}

// HandleKey toggles the mark bound to key and reports whether the key was
// consumed.
func (e *Editor) HandleKey(key string) bool {
	mark, ok := Hotkeys[normalizeKey(key)]
	if !ok {
		return false
	}
	e.Dispatch(ToggleMark(mark))
	return true
}

func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, prefix := range []string{"ctrl+", "cmd+", "meta+", "super+"} {
		if strings.HasPrefix(key, prefix) {
			return "mod+" + strings.TrimPrefix(key, prefix)
		}
	}
	return key
}

package editor

import (
	"github.com/aischool/richdoc/pkg/document"
)

type ButtonKind int

const (
	MarkButton ButtonKind = iota
	BlockButton
)

// Button is a toolbar entry with its activation state.
type Button struct {
	Kind   ButtonKind
	Format string
	Active bool
}

var blockButtons = []document.Type{
	document.TypeHeadingOne,
	document.TypeHeadingTwo,
	document.TypeBlockQuote,
	document.TypeNumberedList,
	document.TypeBulletedList,
}

// Toolbar lists the mark and block buttons for the current state.
func (e *Editor) Toolbar() []Button {
	s := e.State()
	buttons := make([]Button, 0, len(document.AllMarks)+len(blockButtons))
	for _, m := range document.AllMarks {
		buttons = append(buttons, Button{Kind: MarkButton, Format: string(m), Active: IsMarkActive(s, m)})
	}
	for _, t := range blockButtons {
		buttons = append(buttons, Button{Kind: BlockButton, Format: string(t), Active: IsBlockActive(s, t)})
	}
	return buttons
}

// Press runs the command of a toolbar button.
func (e *Editor) Press(b Button) {
	switch b.Kind {
	case MarkButton:
		e.Dispatch(ToggleMark(document.Mark(b.Format)))
	case BlockButton:
		e.Dispatch(ToggleBlock(document.Type(b.Format)))
	}
}

// Package term describes the streams a command reads from and writes to.
package term

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

type Term struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	outF   *os.File
}

func System() *Term {
	return FromIO(os.Stdin, os.Stdout, os.Stderr)
}

// FromIO wraps the given streams. Only an *os.File output attached to a
// terminal counts as a TTY.
func FromIO(in io.Reader, out, errOut io.Writer) *Term {
	t := &Term{in: in, out: out, errOut: errOut}
	if f, ok := out.(*os.File); ok && isTerminal(f) {
		t.outF = f
	}
	return t
}

func (t *Term) In() io.Reader     { return t.in }
func (t *Term) Out() io.Writer    { return t.out }
func (t *Term) ErrOut() io.Writer { return t.errOut }

func (t *Term) IsTTY() bool { return t.outF != nil }

// Width returns the width of the output terminal or DefaultWidth.
func (t *Term) Width() int {
	if t.outF == nil {
		return DefaultWidth
	}
	w, _, err := term.GetSize(int(t.outF.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Color returns a printer that emits escape codes only on a TTY.
func (t *Term) Color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if !t.IsTTY() {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

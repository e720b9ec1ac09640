package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/internal/ansi"
	"github.com/aischool/richdoc/internal/log"
	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/editor"
)

// SaveFunc persists the edited document.
type SaveFunc func(document.Document) error

type savedMsg struct{ err error }

// DocumentModel edits a document in the terminal.
type DocumentModel struct {
	editor *editor.Editor
	save   SaveFunc
	keys   *KeyMap
	width  int
	dirty  bool
	status string
	log    *zap.Logger
}

var documentKeyMap = func() *KeyMap {
	m := NewKeyMap()
	m.Add("save", key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")))
	m.Add("bold", key.NewBinding(key.WithKeys("alt+b"), key.WithHelp("alt+b", "bold")))
	m.Add("italic", key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "italic")))
	m.Add("underline", key.NewBinding(key.WithKeys("alt+u"), key.WithHelp("alt+u", "underline")))
	m.Add("code", key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("alt+c", "code")))
	m.Add(string(document.TypeHeadingOne), key.NewBinding(key.WithKeys("alt+1"), key.WithHelp("alt+1", "heading")))
	m.Add(string(document.TypeHeadingTwo), key.NewBinding(key.WithKeys("alt+2"), key.WithHelp("alt+2", "subheading")))
	m.Add(string(document.TypeBlockQuote), key.NewBinding(key.WithKeys("alt+q"), key.WithHelp("alt+q", "quote")))
	m.Add(string(document.TypeBulletedList), key.NewBinding(key.WithKeys("alt+l"), key.WithHelp("alt+l", "bullets")))
	m.Add(string(document.TypeNumberedList), key.NewBinding(key.WithKeys("alt+n"), key.WithHelp("alt+n", "numbers")))
	m.Add("paste", key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")))
	m.Add("copy", key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy html")))
	return m
}()

// markHotkeys translates terminal bindings to editor hotkeys.
var markHotkeys = map[string]string{
	"bold":      "mod+b",
	"italic":    "mod+i",
	"underline": "mod+u",
	"code":      "mod+`",
}

func NewDocumentModel(e *editor.Editor, save SaveFunc) DocumentModel {
	return DocumentModel{
		editor: e,
		save:   save,
		keys:   documentKeyMap,
		log:    log.Get().Named("tui.DocumentModel"),
	}
}

func (m DocumentModel) KeyMap() *KeyMap { return m.keys }

func (m DocumentModel) Dirty() bool { return m.dirty }

func (m DocumentModel) Init() tea.Cmd { return nil }

func (m DocumentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = Width(msg.Width)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			return m, Cmd(ErrorMsg{Err: msg.err})
		}
		m.dirty = false
		m.status = "saved"
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		if name, ok := m.keys.Name(msg); ok {
			return m.command(name)
		}
		return m.edit(msg)
	}
	return m, nil
}

func (m DocumentModel) command(name string) (tea.Model, tea.Cmd) {
	if hotkey, ok := markHotkeys[name]; ok {
		before := m.editor.State().Doc
		m.editor.HandleKey(hotkey)
		m.dirty = m.dirty || !sameDoc(before, m.editor.State().Doc)
		return m, nil
	}
	if t, ok := document.ParseType(name); ok {
		m.apply(editor.ToggleBlock(t))
		return m, nil
	}

	switch name {
	case "save":
		if m.save == nil {
			return m, nil
		}
		doc := m.editor.Document()
		save := m.save
		return m, func() tea.Msg {
			return savedMsg{err: save(doc)}
		}
	case "paste":
		text, err := clipboard.ReadAll()
		if err != nil {
			return m, Cmd(ErrorMsg{Err: errors.Wrap(err, "failed to read clipboard")})
		}
		before := m.editor.State().Doc
		m.editor.InsertData(context.Background(), editor.Data{Text: ansi.StripString(text)})
		m.dirty = m.dirty || !sameDoc(before, m.editor.State().Doc)
	case "copy":
		if err := clipboard.WriteAll(m.editor.HTML()); err != nil {
			return m, Cmd(ErrorMsg{Err: errors.Wrap(err, "failed to write clipboard")})
		}
		m.status = "copied html"
	}
	return m, nil
}

func (m DocumentModel) edit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyRunes:
		m.apply(editor.InsertText(string(msg.Runes)))
	case tea.KeySpace:
		m.apply(editor.InsertText(" "))
	case tea.KeyEnter:
		m.apply(editor.InsertBreak)
	case tea.KeyBackspace:
		m.apply(editor.DeleteBackward)
	case tea.KeyLeft:
		m.apply(editor.Move(editor.Left))
	case tea.KeyRight:
		m.apply(editor.Move(editor.Right))
	case tea.KeyShiftLeft:
		m.apply(editor.Extend(editor.Left))
	case tea.KeyShiftRight:
		m.apply(editor.Extend(editor.Right))
	}
	return m, nil
}

func (m *DocumentModel) apply(cmd editor.Command) {
	if m.editor.Dispatch(cmd) {
		m.dirty = true
	}
}

func sameDoc(a, b document.Document) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

var (
	docStyles = struct {
		heading1, heading2, quote, image, selected, cursor, placeholder, active, inactive lipgloss.Style
	}{
		heading1:    lipgloss.NewStyle().Bold(true).Underline(true),
		heading2:    lipgloss.NewStyle().Bold(true),
		quote:       lipgloss.NewStyle().Inherit(ColorHelp).Italic(true),
		image:       lipgloss.NewStyle().Inherit(ColorAccent),
		selected:    lipgloss.NewStyle().Reverse(true),
		cursor:      lipgloss.NewStyle().Reverse(true),
		placeholder: lipgloss.NewStyle().Inherit(ColorHelp),
		active:      lipgloss.NewStyle().Inherit(ColorAccent).Bold(true),
		inactive:    lipgloss.NewStyle().Inherit(ColorHelp),
	}
	markStyles = map[document.Mark]func(lipgloss.Style) lipgloss.Style{
		document.MarkBold:      func(s lipgloss.Style) lipgloss.Style { return s.Bold(true) },
		document.MarkItalic:    func(s lipgloss.Style) lipgloss.Style { return s.Italic(true) },
		document.MarkUnderline: func(s lipgloss.Style) lipgloss.Style { return s.Underline(true) },
		document.MarkCode:      func(s lipgloss.Style) lipgloss.Style { return s.Faint(true) },
	}
)

func (m DocumentModel) View() string {
	var b strings.Builder

	_, _ = b.WriteString(m.toolbar())
	_, _ = b.WriteString("\n\n")

	s := m.editor.State()
	if m.editor.Empty() && m.editor.Placeholder() != "" {
		_, _ = b.WriteString(docStyles.cursor.Render(" "))
		_, _ = b.WriteString(docStyles.placeholder.Render(m.editor.Placeholder()))
	} else {
		v := docView{state: s}
		for i, blk := range s.Doc {
			v.block(&b, blk, document.Path{i}, "")
		}
	}

	if m.status != "" {
		_, _ = b.WriteString("\n\n")
		_, _ = b.WriteString(ColorSuccess.Render(m.status))
	} else if m.dirty {
		_, _ = b.WriteString("\n\n")
		_, _ = b.WriteString(ColorHelp.Render("modified"))
	}
	return b.String()
}

func (m DocumentModel) toolbar() string {
	buttons := m.editor.Toolbar()
	parts := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		style := docStyles.inactive
		if btn.Active {
			style = docStyles.active
		}
		parts = append(parts, style.Render(btn.Format))
	}
	return strings.Join(parts, " ")
}

type docView struct {
	state editor.State
}

func (v docView) block(b *strings.Builder, blk document.Block, p document.Path, prefix string) {
	switch blk := blk.(type) {
	case *document.Image:
		_, _ = b.WriteString(docStyles.image.Render("[image " + shorten(blk.URL, 60) + "]"))
		_, _ = b.WriteString("\n")
		return
	case *document.List:
		for i, c := range document.Children(blk) {
			cb, ok := c.(document.Block)
			if !ok {
				continue
			}
			marker := "• "
			if blk.Ordered {
				marker = strconv.Itoa(i+1) + ". "
			}
			v.block(b, cb, p.Child(i), marker)
		}
		return
	}

	var line strings.Builder
	_, _ = line.WriteString(prefix)
	for i, c := range document.Children(blk) {
		switch c := c.(type) {
		case *document.Text:
			_, _ = line.WriteString(v.leaf(c, p.Child(i)))
		case document.Block:
			v.block(b, c, p.Child(i), "")
		}
	}

	out := line.String()
	switch blk.Type() {
	case document.TypeHeadingOne:
		out = docStyles.heading1.Render(out)
	case document.TypeHeadingTwo:
		out = docStyles.heading2.Render(out)
	case document.TypeBlockQuote:
		out = docStyles.quote.Render("│ " + out)
	}
	_, _ = b.WriteString(out)
	_, _ = b.WriteString("\n")
}

// leaf renders a leaf with its marks, the selection and the cursor.
func (v docView) leaf(t *document.Text, p document.Path) string {
	style := lipgloss.NewStyle()
	for _, mark := range document.AllMarks {
		if t.Has(mark) {
			style = markStyles[mark](style)
		}
	}

	runes := []rune(t.Text)
	from, to, cursor := -1, -1, -1
	if sel := v.state.Selection; sel != nil {
		start, end := sel.Ordered()
		if p.Compare(start.Path) >= 0 && p.Compare(end.Path) <= 0 && !sel.Collapsed() {
			from, to = 0, len(runes)
			if p.Equal(start.Path) {
				from = start.Offset
			}
			if p.Equal(end.Path) {
				to = end.Offset
			}
		}
		if p.Equal(sel.Focus.Path) {
			cursor = sel.Focus.Offset
		}
	}

	var b strings.Builder
	for i, r := range runes {
		if i == cursor {
			_, _ = b.WriteString(docStyles.cursor.Render(string(r)))
			continue
		}
		if i >= from && i < to {
			_, _ = b.WriteString(docStyles.selected.Inherit(style).Render(string(r)))
			continue
		}
		_, _ = b.WriteString(style.Render(string(r)))
	}
	if cursor == len(runes) {
		_, _ = b.WriteString(docStyles.cursor.Render(" "))
	}
	return b.String()
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

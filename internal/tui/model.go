package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/elliotchance/orderedmap"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/internal/log"
)

const (
	MaxWidth = 100
)

func Width(width int) int {
	if width > MaxWidth {
		return MaxWidth
	}
	return width
}

type Option func(*Model)

func WithoutHelp() Option {
	return func(m *Model) {
		m.disableHelp = true
	}
}

// WithTitle shows title above the child view.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// Model frames a child model with a title, errors and key help.
type Model struct {
	Child  tea.Model
	KeyMap *KeyMap
	Styles *Styles

	title       string
	disableHelp bool
	err         error
	help        help.Model
	log         *zap.Logger
}

func NewModel(
	child tea.Model,
	keyMap *KeyMap,
	styles *Styles,
	opts ...Option,
) Model {
	m := Model{
		Child:  child,
		KeyMap: keyMap,
		Styles: styles,
		help:   help.New(),
		log:    log.Get().Named("tui.Model"),
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	return m.Child.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = Width(msg.Width)

	case tea.KeyMsg:
		m.log.Debug("received KeyMsg", zap.String("key", msg.String()))
		switch {
		case m.KeyMap.Matches(msg, "quit"):
			return m, tea.Quit
		case m.KeyMap.Matches(msg, "help"):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case ErrorMsg:
		m.log.Debug("received ErrorMsg", zap.Error(msg.Err))
		m.err = msg.Err
		if msg.Exit {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.Child, cmd = m.Child.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	if m.title != "" {
		_, _ = b.WriteString(m.Styles.Title.Render(m.title))
	}

	_, _ = b.WriteString(m.Styles.Child.Render(m.Child.View()))
	if m.err != nil {
		_, _ = b.WriteString(m.Styles.Error.Render("Error: " + m.err.Error()))
	}

	kmap := m.KeyMap.Copy()
	if p, ok := m.Child.(KeyMapProvider); ok {
		kmap.Merge(p.KeyMap())
	}

	if !m.disableHelp {
		_, _ = b.WriteString(m.Styles.Help.Render(m.help.View(kmap)))
	} else {
		_, _ = b.WriteString("\n")
	}

	return b.String()
}

type ErrorMsg struct {
	Err  error
	Exit bool
}

type Styles struct {
	Title   lipgloss.Style
	Child   lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Success lipgloss.Style
}

var (
	ColorError   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF0000"})
	ColorSuccess = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "32", Dark: "42"})
	ColorHelp    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"})
	ColorAccent  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "57", Dark: "141"})
)

var DefaultStyles = &Styles{
	Title:   lipgloss.NewStyle().Inherit(ColorAccent).Bold(true),
	Child:   lipgloss.NewStyle().Padding(1, 0, 0, 0),
	Error:   lipgloss.NewStyle().Inherit(ColorError).Padding(1, 0),
	Help:    lipgloss.NewStyle().Padding(1, 0, 1, 2),
	Success: lipgloss.NewStyle().Inherit(ColorSuccess).Padding(1, 0),
}

var MinimalKeyMap = func() *KeyMap {
	m := NewKeyMap()
	m.Add("quit", key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	))
	m.Add("help", key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "more keys"),
	))
	return m
}()

type KeyMapProvider interface {
	KeyMap() *KeyMap
}

// KeyMap keeps key bindings in the order they are listed in the help.
type KeyMap struct {
	*orderedmap.OrderedMap
}

func NewKeyMap() *KeyMap {
	return &KeyMap{OrderedMap: orderedmap.NewOrderedMap()}
}

func (m *KeyMap) Add(name string, binding key.Binding) {
	m.Set(name, binding)
}

func (m KeyMap) Copy() *KeyMap {
	return &KeyMap{
		OrderedMap: m.OrderedMap.Copy(),
	}
}

func (m *KeyMap) Merge(kmap *KeyMap) {
	for pair := kmap.Front(); pair != nil; pair = pair.Next() {
		m.Set(pair.Key, pair.Value)
	}
}

func (m KeyMap) Matches(msg tea.KeyMsg, keyStr string) bool {
	v, ok := m.Get(keyStr)
	if !ok {
		return false
	}
	return key.Matches(msg, v.(key.Binding))
}

// Name returns the name of the first binding matching msg.
func (m KeyMap) Name(msg tea.KeyMsg) (string, bool) {
	for pair := m.Front(); pair != nil; pair = pair.Next() {
		if key.Matches(msg, pair.Value.(key.Binding)) {
			name, _ := pair.Key.(string)
			return name, true
		}
	}
	return "", false
}

var _ help.KeyMap = (*KeyMap)(nil)

func (m KeyMap) ShortHelp() []key.Binding {
	result := make([]key.Binding, 0, m.Len())
	for pair := m.Front(); pair != nil; pair = pair.Next() {
		if name, _ := pair.Key.(string); name == "help" || len(result) >= 6 {
			continue
		}
		result = append(result, pair.Value.(key.Binding))
	}
	return result
}

func (m KeyMap) FullHelp() [][]key.Binding {
	result := [3][]key.Binding{}
	idx := 0
	for pair := m.Front(); pair != nil; pair = pair.Next() {
		result[idx%3] = append(result[idx%3], pair.Value.(key.Binding))
		idx++
	}
	return result[:]
}

func Cmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

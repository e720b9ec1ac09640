package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/editor"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m DocumentModel, msgs ...tea.Msg) (DocumentModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(DocumentModel)
	}
	return m, cmd
}

func TestDocumentModel_Typing(t *testing.T) {
	e := editor.New(nil, nil)
	m := NewDocumentModel(e, nil)
	assert.False(t, m.Dirty())

	m, _ = update(t, m,
		runes("hi"),
		tea.KeyMsg{Type: tea.KeySpace},
		runes("there"),
		tea.KeyMsg{Type: tea.KeyEnter},
		runes("x"),
		tea.KeyMsg{Type: tea.KeyBackspace},
	)

	assert.True(t, m.Dirty())
	assert.Equal(t, "hi there\n", document.PlainText(e.State().Doc))
	assert.Contains(t, m.View(), "modified")
}

func TestDocumentModel_Formatting(t *testing.T) {
	e := editor.New("Title", nil)
	m := NewDocumentModel(e, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true})
	assert.Equal(t, "<h1><span>Title</span></h1>", e.HTML())
	assert.True(t, m.Dirty())

	_, _ = update(t, m,
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true},
		runes("!"),
	)
	assert.Equal(t, "<h1><span><strong>!</strong></span><span>Title</span></h1>", e.HTML())
}

func TestDocumentModel_Save(t *testing.T) {
	var saved document.Document
	e := editor.New(nil, nil)
	m := NewDocumentModel(e, func(doc document.Document) error {
		saved = doc
		return nil
	})

	m, _ = update(t, m, runes("draft"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, "draft", document.PlainText(saved))
	assert.False(t, m.Dirty())
	assert.Contains(t, m.View(), "saved")
}

func TestDocumentModel_SaveError(t *testing.T) {
	e := editor.New(nil, nil)
	m := NewDocumentModel(e, func(document.Document) error {
		return errors.New("disk full")
	})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m, cmd = update(t, m, cmd())
	require.NotNil(t, cmd)

	msg, ok := cmd().(ErrorMsg)
	require.True(t, ok)
	assert.EqualError(t, msg.Err, "disk full")
	assert.False(t, m.Dirty())
}

func TestDocumentModel_View(t *testing.T) {
	e := editor.New(nil, nil, editor.WithPlaceholder("Start writing..."))
	m := NewDocumentModel(e, nil)
	assert.Contains(t, m.View(), "Start writing...")
	assert.Contains(t, m.View(), "heading-one")

	e.Dispatch(editor.InsertImage("https://example.com/a.png"))
	assert.Contains(t, m.View(), "[image https://example.com/a.png]")
}

func TestModel_QuitAndErrors(t *testing.T) {
	e := editor.New(nil, nil)
	m := NewModel(NewDocumentModel(e, nil), MinimalKeyMap, DefaultStyles, WithTitle("intro"))

	next, _ := m.Update(ErrorMsg{Err: errors.New("boom")})
	assert.Contains(t, next.View(), "Error: boom")
	assert.Contains(t, next.View(), "intro")

	_, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "abc", shorten("abc", 3))
	assert.Equal(t, "ab…", shorten("abcd", 3))
}

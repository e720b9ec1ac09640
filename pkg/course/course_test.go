package course

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischool/richdoc/pkg/document"
)

const legacyCourse = `{
  "id": "go-101",
  "title": "Go & friends",
  "kind": "guide",
  "description": "Learn Go",
  "modules": [
    {"title": "Basics", "content": [{"type": "paragraph", "children": [{"text": "hi", "bold": true}]}]},
    {"title": "Empty"}
  ]
}`

func TestDecode_UpgradesLegacyFields(t *testing.T) {
	c, err := Decode(strings.NewReader(legacyCourse))
	require.NoError(t, err)

	assert.Equal(t, "go-101", c.ID)
	assert.Equal(t, KindGuide, c.Kind)
	assert.Equal(t, document.FromString("Learn Go"), c.Description)
	require.Len(t, c.Modules, 2)
	assert.Equal(t, "hi", document.PlainText(c.Modules[0].Content))
	assert.Equal(t, document.Empty(), c.Modules[1].Content)
	assert.NoError(t, Validate(c))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"id": 1}`))
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	c, err := Decode(strings.NewReader(legacyCourse))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, c))
	assert.Contains(t, buf.String(), `"title": "Go & friends"`)
	assert.Contains(t, buf.String(), `"description": [`)

	first := buf.String()
	again, err := Decode(&buf)
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, Encode(&second, again))
	assert.Equal(t, first, second.String())
}

func TestValidate(t *testing.T) {
	c := &Course{
		Kind:        "book",
		Description: document.Document{&document.List{}},
		Modules: []Module{
			{Title: "ok", Content: document.Empty()},
			{Content: document.Document{}},
		},
	}

	err := Validate(c)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"ID", "Title", "Kind", "description", "modules[1].content"} {
		assert.Contains(t, msg, want)
	}
}

func TestRender(t *testing.T) {
	c, err := Decode(strings.NewReader(legacyCourse))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, c))
	assert.Equal(t,
		"<article><h1>Go &amp; friends</h1>"+
			"<p><span>Learn Go</span></p>"+
			"<section><h2>Basics</h2><p><span><strong>hi</strong></span></p></section>"+
			"<section><h2>Empty</h2><p><span></span></p></section>"+
			"</article>",
		buf.String(),
	)
}

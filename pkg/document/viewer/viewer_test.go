package viewer

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/render"
)

func TestViewer_LegacyString(t *testing.T) {
	v := New("Bring a jacket")
	assert.Equal(t, "<p><span>Bring a jacket</span></p>", v.HTML())
	assert.Equal(t, "Bring a jacket", v.Text())
}

func TestViewer_Nil(t *testing.T) {
	v := New(nil)
	assert.Equal(t, document.Empty(), v.Document())
	assert.Equal(t, "<p><span></span></p>", v.HTML())
}

func TestViewer_MatchesRenderer(t *testing.T) {
	doc := document.Document{
		document.NewBlock(document.TypeBlockQuote, document.NewText("note", document.MarkItalic)),
		document.NewImage("https://example.com/a.png"),
	}
	assert.Equal(t, render.HTML(doc), New(doc).HTML())
}

func TestViewer_DoesNotModifyInput(t *testing.T) {
	doc := document.Document{document.NewParagraph(document.NewText("a"), document.NewText("b"))}
	before := doc.Clone()

	var buf bytes.Buffer
	require.NoError(t, New(doc).Render(&buf))

	if diff := cmp.Diff(before, doc); diff != "" {
		t.Errorf("viewer modified the document (-want +got):\n%s", diff)
	}
}

func TestViewer_Sanitizer(t *testing.T) {
	doc := document.Document{
		&document.Paragraph{BlockBase: document.BlockBase{
			Align:    "center",
			Children: []document.Node{document.NewText("safe", document.MarkBold)},
		}},
		document.NewImage("javascript:alert(1)"),
		document.NewImage("data:image/png;base64,iVBORw0KGgo="),
	}

	html := New(doc, WithSanitizer(DefaultPolicy())).HTML()
	assert.Contains(t, html, "text-align: center")
	assert.Contains(t, html, "<strong>safe</strong>")
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, "data:image/png;base64,")
}

package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischool/richdoc/pkg/document"
)

func TestBlock(t *testing.T) {
	item := func(s string) document.Node {
		return document.NewBlock(document.TypeListItem, document.NewText(s))
	}

	testCases := []struct {
		name  string
		block document.Block
		want  string
	}{
		{
			name:  "Paragraph",
			block: document.NewParagraph(document.NewText("hi")),
			want:  "<p><span>hi</span></p>",
		},
		{
			name:  "HeadingOne",
			block: document.NewBlock(document.TypeHeadingOne, document.NewText("Title")),
			want:  "<h1><span>Title</span></h1>",
		},
		{
			name:  "HeadingTwo",
			block: document.NewBlock(document.TypeHeadingTwo, document.NewText("Sub")),
			want:  "<h2><span>Sub</span></h2>",
		},
		{
			name:  "BlockQuote",
			block: document.NewBlock(document.TypeBlockQuote, document.NewText("note")),
			want:  "<blockquote><span>note</span></blockquote>",
		},
		{
			name:  "BulletedList",
			block: document.NewBlock(document.TypeBulletedList, item("a"), item("b")),
			want:  "<ul><li><span>a</span></li><li><span>b</span></li></ul>",
		},
		{
			name:  "NumberedList",
			block: document.NewBlock(document.TypeNumberedList, item("a")),
			want:  "<ol><li><span>a</span></li></ol>",
		},
		{
			name:  "Image",
			block: document.NewImage("https://example.com/a.png"),
			want:  `<div><div contenteditable="false"><img src="https://example.com/a.png" alt=""></div><span></span></div>`,
		},
		{
			name:  "UnknownFallsBackToParagraph",
			block: document.NewBlock("callout", document.NewText("x")),
			want:  "<p><span>x</span></p>",
		},
		{
			name: "Aligned",
			block: &document.Paragraph{BlockBase: document.BlockBase{
				Align:    "center",
				Children: []document.Node{document.NewText("mid")},
			}},
			want: `<p style="text-align: center"><span>mid</span></p>`,
		},
		{
			name:  "EscapesText",
			block: document.NewParagraph(document.NewText(`<script>"x" & y</script>`)),
			want:  "<p><span>&lt;script&gt;&quot;x&quot; &amp; y&lt;/script&gt;</span></p>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Block(&buf, tc.block))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestLeaf_MarkNesting(t *testing.T) {
	testCases := []struct {
		name  string
		marks []document.Mark
		want  string
	}{
		{name: "Plain", want: "<span>x</span>"},
		{name: "Bold", marks: []document.Mark{document.MarkBold}, want: "<span><strong>x</strong></span>"},
		{name: "Code", marks: []document.Mark{document.MarkCode}, want: "<span><code>x</code></span>"},
		{
			name:  "All",
			marks: []document.Mark{document.MarkUnderline, document.MarkItalic, document.MarkCode, document.MarkBold},
			want:  "<span><u><em><code><strong>x</strong></code></em></u></span>",
		},
		{
			name:  "ItalicUnderline",
			marks: []document.Mark{document.MarkItalic, document.MarkUnderline},
			want:  "<span><u><em>x</em></u></span>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Leaf(&buf, document.NewText("x", tc.marks...)))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestDocument_HeadingAndBold(t *testing.T) {
	doc := document.Document{
		document.NewBlock(document.TypeHeadingOne, document.NewText("Welcome")),
		document.NewParagraph(document.NewText("Say "), document.NewText("hi", document.MarkBold)),
	}
	assert.Equal(
		t,
		"<h1><span>Welcome</span></h1><p><span>Say </span><span><strong>hi</strong></span></p>",
		HTML(doc),
	)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestDocument_WriteError(t *testing.T) {
	err := Document(failingWriter{}, document.Empty())
	require.EqualError(t, err, "closed")
}

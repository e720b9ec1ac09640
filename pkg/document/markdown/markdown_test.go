package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/render"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "Empty",
			source: "",
			want:   "<p><span></span></p>",
		},
		{
			name:   "Headings",
			source: "# Title\n\n## Section\n\n#### Deep",
			want:   "<h1><span>Title</span></h1><h2><span>Section</span></h2><h2><span>Deep</span></h2>",
		},
		{
			name:   "Emphasis",
			source: "**bold** and _it_",
			want:   "<p><span><strong>bold</strong></span><span> and </span><span><em>it</em></span></p>",
		},
		{
			name:   "CodeSpan",
			source: "run `go test`",
			want:   "<p><span>run </span><span><code>go test</code></span></p>",
		},
		{
			name:   "SoftBreak",
			source: "one\ntwo",
			want:   "<p><span>one two</span></p>",
		},
		{
			name:   "BlockQuote",
			source: "> quoted",
			want:   "<blockquote><span>quoted</span></blockquote>",
		},
		{
			name:   "OrderedList",
			source: "1. a\n2. b",
			want:   "<ol><li><span>a</span></li><li><span>b</span></li></ol>",
		},
		{
			name:   "NestedListIsFlattened",
			source: "- one\n  - two\n- three",
			want:   "<ul><li><span>one</span></li><li><span>two</span></li><li><span>three</span></li></ul>",
		},
		{
			name:   "FencedCode",
			source: "```go\nx := 1\ny := 2\n```",
			want:   "<p><span><code>x := 1</code></span></p><p><span><code>y := 2</code></span></p>",
		},
		{
			name:   "Escaping",
			source: "a < b",
			want:   "<p><span>a &lt; b</span></p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Convert([]byte(tt.source))
			require.NoError(t, err)
			assert.Equal(t, tt.want, render.HTML(doc))
			assert.Empty(t, document.Validate(doc))
		})
	}
}

func TestConvert_Images(t *testing.T) {
	doc, err := Convert([]byte("before ![logo](https://example.com/logo.png) after"))
	require.NoError(t, err)

	var types []document.Type
	for _, b := range doc {
		types = append(types, b.Type())
	}
	require.Equal(t, []document.Type{document.TypeParagraph, document.TypeImage, document.TypeParagraph}, types)
	assert.Equal(t, "https://example.com/logo.png", doc[1].(*document.Image).URL)
	assert.Empty(t, document.Validate(doc))
}

func TestConvert_ImageInList(t *testing.T) {
	doc, err := Convert([]byte("- item ![x](a.png)"))
	require.NoError(t, err)

	require.Len(t, doc, 2)
	assert.Equal(t, document.TypeBulletedList, doc[0].Type())
	assert.Equal(t, document.TypeImage, doc[1].Type())
	assert.Empty(t, document.Validate(doc))
}

func TestConvertWithFrontmatter(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   *Frontmatter
	}{
		{
			name:   "None",
			source: "# Title\n",
		},
		{
			name:   "YAML",
			source: "---\nid: intro\ntitle: Welcome\n---\n# Title\n",
			want:   &Frontmatter{ID: "intro", Title: "Welcome", format: frontmatterFormatYAML},
		},
		{
			name:   "TOML",
			source: "+++\nid = \"intro\"\nkind = \"guide\"\n+++\n# Title\n",
			want:   &Frontmatter{ID: "intro", Kind: "guide", format: frontmatterFormatTOML},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, doc, err := New().ConvertWithFrontmatter([]byte(tt.source))
			require.NoError(t, err)
			assert.Equal(t, tt.want, fm)
			assert.Equal(t, "<h1><span>Title</span></h1>", render.HTML(doc))
		})
	}
}

func TestConvertWithFrontmatter_Invalid(t *testing.T) {
	_, _, err := New().ConvertWithFrontmatter([]byte("---\nid: [unclosed\n---\nbody\n"))
	assert.Error(t, err)

	doc, err := Convert([]byte("---\nid: [unclosed\n---\nbody\n"))
	require.NoError(t, err, "Convert skips the frontmatter without parsing it")
	assert.Equal(t, "body", document.PlainText(doc))
}

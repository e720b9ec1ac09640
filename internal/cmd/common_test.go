package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischool/richdoc/internal/config"
	"github.com/aischool/richdoc/internal/term"
	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/markdown"
	"github.com/aischool/richdoc/pkg/document/render"
)

func TestDetectFormat(t *testing.T) {
	tests := map[string]string{
		"doc.json":     formatJSON,
		"README.md":    formatMarkdown,
		"a.MARKDOWN":   formatMarkdown,
		"notes.txt":    formatText,
		"-":            formatJSON,
		"no-extension": formatJSON,
	}
	for name, want := range tests {
		assert.Equal(t, want, detectFormat(name, formatAuto), name)
	}
	assert.Equal(t, formatText, detectFormat("doc.json", formatText))
}

func TestParseDocument(t *testing.T) {
	doc, err := parseDocument([]byte(`"legacy"`), formatJSON)
	require.NoError(t, err)
	assert.Equal(t, "<p><span>legacy</span></p>", render.HTML(doc))

	doc, err = parseDocument([]byte("\x1b[1mbold\x1b[0m text\n"), formatText)
	require.NoError(t, err)
	assert.Equal(t, "bold text", document.PlainText(doc))

	doc, err = parseDocument([]byte("# Hi"), formatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "<h1><span>Hi</span></h1>", render.HTML(doc))

	_, err = parseDocument([]byte("{"), formatJSON)
	assert.Error(t, err)

	_, err = parseDocument(nil, "yaml")
	assert.EqualError(t, err, "invalid format: yaml")
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "intro", recordID("docs/intro.md"))
	assert.Equal(t, "getting-started", recordID("Getting Started.md"))
	assert.Equal(t, "v1.2-notes", recordID("V1.2 notes.markdown"))

	id := recordID("docs/???.md")
	assert.Len(t, id, 26, "names without usable characters get a generated id")
	assert.Equal(t, strings.ToLower(id), id)
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.md":            "a",
		"b.txt":           "b",
		"nested/c.md":     "c",
		"drafts/d.md":     "d",
		"archive/e.md":    "e",
		".git/HEAD.md":    "ignored",
		".gitignore":      "drafts/\n",
		"nested/.keep.md": "kept",
	})
	pattern := glob.MustCompile("**.md", '/')

	rel := func(files []string) []string {
		out := make([]string, 0, len(files))
		for _, f := range files {
			r, err := filepath.Rel(root, f)
			require.NoError(t, err)
			out = append(out, filepath.ToSlash(r))
		}
		return out
	}

	files, err := collectFiles([]string{root}, pattern, ignoreOptions{gitignore: true, excludes: []string{"archive/"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.md", "nested/c.md", "nested/.keep.md"}, rel(files))

	files, err = collectFiles([]string{root}, pattern, ignoreOptions{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.md", "nested/c.md", "nested/.keep.md", "drafts/d.md", "archive/e.md"}, rel(files))

	explicit := filepath.Join(root, "b.txt")
	files, err = collectFiles([]string{explicit}, pattern, ignoreOptions{gitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{explicit}, files)

	_, err = collectFiles([]string{filepath.Join(root, "missing")}, pattern, ignoreOptions{})
	assert.Error(t, err)
}

func TestWithTitle(t *testing.T) {
	body := document.FromString("body")

	assert.Equal(t, body, withTitle(body, nil))
	assert.Equal(t, body, withTitle(body, &markdown.Frontmatter{ID: "x"}))

	doc := withTitle(body, &markdown.Frontmatter{Title: "Title"})
	assert.Equal(t, "<h1><span>Title</span></h1><p><span>body</span></p>", render.HTML(doc))

	heading := document.Document{document.NewBlock(document.TypeHeadingOne, document.NewText("Own"))}
	assert.Equal(t, heading, withTitle(heading, &markdown.Frontmatter{Title: "Title"}))

	doc = withTitle(document.Empty(), &markdown.Frontmatter{Title: "Only"})
	assert.Equal(t, "<h1><span>Only</span></h1>", render.HTML(doc))
}

func TestPrintWidth(t *testing.T) {
	pipe := term.FromIO(nil, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, 0, printWidth(pipe, -1))
	assert.Equal(t, 0, printWidth(pipe, 0))
	assert.Equal(t, 40, printWidth(pipe, 40))
}

func TestPathConfig(t *testing.T) {
	fsys := fstest.MapFS{
		"richdoc.yaml":        {Data: []byte("version: v1\neditor:\n  placeholder: Root\n")},
		"doc.json":            {Data: []byte("[]")},
		"raw/richdoc.yaml":    {Data: []byte("version: v1\nrender:\n  sanitize: false\n")},
		"raw/deep/doc.json":   {Data: []byte("[]")},
		"broken/richdoc.yaml": {Data: []byte("version: v2\n")},
		"broken/doc.json":     {Data: []byte("[]")},
	}
	loader := config.NewLoader("richdoc", "yaml", fsys)
	root := config.Default()

	cfg, err := pathConfig(loader, root, "doc.json")
	require.NoError(t, err)
	assert.True(t, cfg.Render.Sanitize)
	assert.Equal(t, "Root", cfg.Editor.Placeholder)

	cfg, err = pathConfig(loader, root, "./raw/deep/doc.json")
	require.NoError(t, err)
	assert.False(t, cfg.Render.Sanitize)
	assert.Equal(t, "Root", cfg.Editor.Placeholder)

	_, err = pathConfig(loader, root, "broken/doc.json")
	assert.ErrorContains(t, err, "unknown version")

	for _, name := range []string{"-", "https://example.com/doc.json", "/abs/doc.json", "../doc.json"} {
		cfg, err := pathConfig(loader, root, name)
		require.NoError(t, err)
		assert.Same(t, root, cfg, name)
	}
}

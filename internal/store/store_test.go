package store

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischool/richdoc/pkg/document"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	return NewFS(osfs.New(t.TempDir()))
}

func TestFS_SetGet(t *testing.T) {
	ctx := context.Background()
	s := newTestFS(t)

	doc := document.Document{
		document.NewBlock(document.TypeHeadingOne, document.NewText("Title")),
		document.NewBlock(document.TypeParagraph, document.NewText("body", document.MarkBold)),
	}
	require.NoError(t, s.Set(ctx, "intro", doc))

	got, err := s.Get(ctx, "intro")
	require.NoError(t, err)
	assert.Equal(t, "Title\nbody", document.PlainText(got))
	assert.True(t, got[1].(*document.Paragraph).Children[0].(*document.Text).Has(document.MarkBold))
}

func TestFS_GetLegacy(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := osfs.New(dir)
	require.NoError(t, util.WriteFile(fs, "old.json", []byte(`"Old description"`), 0o600))

	s := NewFS(fs)
	doc, err := s.Get(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "Old description", document.PlainText(doc))

	raw, err := s.GetRaw(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, `"Old description"`, string(raw), "raw reads return the stored value")
}

func TestFS_GetRawReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestFS(t)
	require.NoError(t, s.SetRaw(ctx, "a", []byte(`[]`)))

	raw, err := s.GetRaw(ctx, "a")
	require.NoError(t, err)
	raw[0] = 'x'

	again, err := s.GetRaw(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(again))
}

func TestFS_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestFS(t)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFS_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestFS(t)
	require.NoError(t, s.Set(ctx, "gone", document.Empty()))

	require.NoError(t, s.Delete(ctx, "gone"))
	_, err := s.GetRaw(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFS_List(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := osfs.New(dir)
	s := NewFS(fs)

	for _, id := range []string{"course-b", "course-a", "guide"} {
		require.NoError(t, s.Set(ctx, id, document.Empty()))
	}
	require.NoError(t, util.WriteFile(fs, "notes.txt", []byte("ignored"), 0o600))
	require.NoError(t, fs.MkdirAll("nested.json", 0o700))

	ids, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"course-a", "course-b", "guide"}, ids)

	ids, err = s.List(ctx, "course-*")
	require.NoError(t, err)
	assert.Equal(t, []string{"course-a", "course-b"}, ids)

	_, err = s.List(ctx, "[")
	assert.Error(t, err)
}

func TestFS_ListMissingDir(t *testing.T) {
	s := NewFS(osfs.New(t.TempDir() + "/does-not-exist"))
	ids, err := s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCheckID(t *testing.T) {
	ctx := context.Background()
	for _, id := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		assert.ErrorIs(t, checkID(ctx, id), ErrInvalidID, id)
	}
	assert.NoError(t, checkID(ctx, "01hzq-course"))

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, checkID(canceled, "ok"), context.Canceled)
}

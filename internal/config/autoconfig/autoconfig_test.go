package autoconfig

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischool/richdoc/internal/config"
	"github.com/aischool/richdoc/internal/media"
	"github.com/aischool/richdoc/internal/store"
	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/editor"
	"github.com/aischool/richdoc/pkg/document/viewer"
)

func newTestBuilder(t *testing.T, extra string) *Builder {
	t.Helper()

	temp := t.TempDir()
	configRootFS := fstest.MapFS{
		"richdoc.yaml": {
			Data: []byte(`version: v1
store:
  dir: ` + filepath.Join(temp, "store") + `
media:
  dir: ` + filepath.Join(temp, "media") + `
  base_url: /files
` + extra),
		},
	}

	builder := NewBuilder()
	err := builder.Decorate(func() (*config.Loader, error) {
		return config.NewLoader("richdoc", "yaml", configRootFS), nil
	})
	require.NoError(t, err)
	return builder
}

func TestInvoke_Config(t *testing.T) {
	builder := newTestBuilder(t, "editor:\n  placeholder: Type here\n")
	err := builder.Invoke(func(cfg *config.Config) error {
		assert.Equal(t, "Type here", cfg.Editor.Placeholder)
		assert.Equal(t, "/files", cfg.Media.BaseURL)
		return nil
	})
	require.NoError(t, err)
}

func TestInvoke_Store(t *testing.T) {
	builder := newTestBuilder(t, "")
	err := builder.Invoke(func(s store.Store) error {
		ctx := context.Background()
		require.NoError(t, s.Set(ctx, "intro", document.FromString("hello")))

		doc, err := s.Get(ctx, "intro")
		require.NoError(t, err)
		assert.Equal(t, "hello", document.PlainText(doc))
		return nil
	})
	require.NoError(t, err)
}

func TestInvoke_Editor(t *testing.T) {
	builder := newTestBuilder(t, "editor:\n  placeholder: Describe it\n")
	err := builder.Invoke(func(opts []editor.Option, u media.Uploader) error {
		require.NotNil(t, u)
		e := editor.New(nil, nil, opts...)
		assert.Equal(t, "Describe it", e.Placeholder())
		return nil
	})
	require.NoError(t, err)
}

func TestInvoke_ViewerSanitizes(t *testing.T) {
	builder := newTestBuilder(t, "render:\n  sanitize: true\n")
	err := builder.Invoke(func(opts []viewer.Option) error {
		doc := document.Document{document.NewImage("javascript:alert(1)")}
		var buf bytes.Buffer
		require.NoError(t, viewer.New(doc, opts...).Render(&buf))
		assert.NotContains(t, buf.String(), "javascript:")
		return nil
	})
	require.NoError(t, err)
}

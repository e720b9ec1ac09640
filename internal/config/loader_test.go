package config

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewLoader(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		NewLoader("", "yaml", fstest.MapFS{})
	}, "config name is not set")
}

func TestLoader_RootConfig(t *testing.T) {
	t.Parallel()

	t.Run("without root config", func(t *testing.T) {
		t.Parallel()

		loader := NewLoader("richdoc", "yaml", fstest.MapFS{}, WithLogger(zaptest.NewLogger(t)))
		result, err := loader.RootConfig()
		require.ErrorIs(t, err, ErrRootConfigNotFound)
		require.Nil(t, result)

		cfg, err := loader.RootConfigOrDefault()
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("with root config", func(t *testing.T) {
		t.Parallel()

		data := []byte("version: v1\neditor:\n  placeholder: Describe the course\n")
		fsys := fstest.MapFS{
			"richdoc.yaml": {Data: data},
		}
		loader := NewLoader("richdoc", "yaml", fsys, WithLogger(zaptest.NewLogger(t)))
		result, err := loader.RootConfig()
		require.NoError(t, err)
		require.Equal(t, data, result)

		cfg, err := loader.RootConfigOrDefault()
		require.NoError(t, err)
		assert.Equal(t, "Describe the course", cfg.Editor.Placeholder)
		assert.Equal(t, 4, cfg.Editor.MaxConcurrentReads)
	})
}

func TestLoader_FindConfigChain(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"richdoc.yaml":             {Data: []byte("path:richdoc.yaml")},
		"nested/richdoc.yaml":      {Data: []byte("path:nested/richdoc.yaml")},
		"nested/path/richdoc.yaml": {Data: []byte("path:nested/path/richdoc.yaml")},
		"without/config/doc.json":  {Data: []byte("[]")},
	}
	loader := NewLoader("richdoc", "yaml", fsys, WithLogger(zaptest.NewLogger(t)))

	testCases := []struct {
		name     string
		path     string
		expected []string
	}{
		{"root config", "", []string{"path:richdoc.yaml"}},
		{"nested config", "nested", []string{"path:richdoc.yaml", "path:nested/richdoc.yaml"}},
		{
			"nested deep config",
			"nested/path",
			[]string{"path:richdoc.yaml", "path:nested/richdoc.yaml", "path:nested/path/richdoc.yaml"},
		},
		{"nested file", "without/config/doc.json", []string{"path:richdoc.yaml"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := loader.FindConfigChain(tc.path)
			require.NoError(t, err)
			var got []string
			for _, r := range result {
				got = append(got, string(r))
			}
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"richdoc.yaml": {Data: []byte("version: v1\nstore:\n  dir: data\n  cache_ttl: 1m\n")},
		"courses/richdoc.yaml": {Data: []byte("version: v1\neditor:\n  placeholder: Module content\n")},
		"courses/intro.json":   {Data: []byte("[]")},
	}
	loader := NewLoader("richdoc", "yaml", fsys, WithLogger(zaptest.NewLogger(t)))

	cfg, err := loader.Load("courses/intro.json")
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.Store.Dir)
	assert.Equal(t, time.Minute, cfg.Store.CacheTTL)
	assert.Equal(t, "Module content", cfg.Editor.Placeholder)
	assert.Equal(t, Default().Media, cfg.Media)

	t.Run("invalid nested config", func(t *testing.T) {
		fsys := fstest.MapFS{
			"a/richdoc.yaml": {Data: []byte("version: v1\neditor:\n  max_concurrent_reads: 0\n")},
		}
		_, err := NewLoader("richdoc", "yaml", fsys).Load("a")
		require.ErrorContains(t, err, "editor.max_concurrent_reads")
	})
}

package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	// Parsing the default file must produce the defaults.
	got, err := ParseYAML(DefaultYAML())
	require.NoError(t, err)
	require.True(t, cmp.Equal(Default(), got), "%s", cmp.Diff(Default(), got))

	cfg := Default()
	cfg.Editor.Placeholder = "changed"
	require.NotEqual(t, "changed", Default().Editor.Placeholder)
}

func Test_parseYAML(t *testing.T) {
	testCases := []struct {
		name           string
		rawConfig      string
		expected       func(*Config)
		errorSubstring string
	}{
		{
			name: "full config v1",
			rawConfig: `version: v1
log:
  enabled: true
  path: /tmp/richdoc.log
  verbose: true
  max_size_mb: 5
  max_backups: 1
store:
  dir: store
  cache_ttl: 30s
media:
  dir: public/media
  base_url: https://cdn.example.com/media
  max_width: 800
editor:
  placeholder: Write here
  max_concurrent_reads: 2
render:
  sanitize: false
`,
			expected: func(c *Config) {
				c.Log = ConfigLog{Enabled: true, Path: "/tmp/richdoc.log", Verbose: true, MaxSizeMB: 5, MaxBackups: 1}
				c.Store = ConfigStore{Dir: "store", CacheTTL: 30 * time.Second}
				c.Media = ConfigMedia{Dir: "public/media", BaseURL: "https://cdn.example.com/media", MaxWidth: 800}
				c.Editor = ConfigEditor{Placeholder: "Write here", MaxConcurrentReads: 2}
				c.Render = ConfigRender{Sanitize: false}
			},
		},
		{
			name:      "only version",
			rawConfig: "version: v1\n",
			expected:  func(*Config) {},
		},
		{
			name:           "unknown version",
			rawConfig:      "version: v1alpha1\n",
			errorSubstring: "unknown version: v1alpha1",
		},
		{
			name:           "unknown field",
			rawConfig:      "version: v1\nproject:\n  root: .\n",
			errorSubstring: "failed to parse v1 config",
		},
		{
			name:           "validate reads",
			rawConfig:      "version: v1\neditor:\n  max_concurrent_reads: 100\n",
			errorSubstring: `editor.max_concurrent_reads: failed on "lte"`,
		},
		{
			name:           "validate store within cwd",
			rawConfig:      "version: v1\nstore:\n  dir: ../outside\n",
			errorSubstring: "store.dir: outside of the current working directory",
		},
		{
			name:           "validate base url",
			rawConfig:      "version: v1\nmedia:\n  base_url: \"\"\n",
			errorSubstring: `media.base_url: failed on "required"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ParseYAML([]byte(tc.rawConfig))

			if tc.errorSubstring != "" {
				require.ErrorContains(t, err, tc.errorSubstring)
				return
			}

			require.NoError(t, err)
			expected := Default()
			tc.expected(expected)
			require.True(t, cmp.Equal(expected, cfg), "%s", cmp.Diff(expected, cfg))
		})
	}
}

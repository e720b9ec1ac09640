package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseVersion(t *testing.T) {
	prev := BuildVersion
	t.Cleanup(func() { BuildVersion = prev })

	tests := []struct {
		name         string
		buildVersion string
		expected     string
	}{
		{
			name:         "standard version",
			buildVersion: "1.7.8-11-g2300850-2300850",
			expected:     "v1.7",
		},
		{
			name:         "only major and minor version",
			buildVersion: "2.3-11-g2300850-2300850",
			expected:     "v2.3",
		},
		{
			name:         "only major version",
			buildVersion: "3-11-g2300850-2300850",
			expected:     "v3.0",
		},
		{
			name:         "no version",
			buildVersion: "0.0.0",
			expected:     "v0.0",
		},
		{
			name:         "invalid semver",
			buildVersion: "1.2.beta",
			expected:     "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			BuildVersion = tt.buildVersion
			assert.Equal(t, tt.expected, BaseVersion())
		})
	}
}

func TestGenerator(t *testing.T) {
	prev := BuildVersion
	t.Cleanup(func() { BuildVersion = prev })

	BuildVersion = "1.4.0"
	assert.Equal(t, "richdoc v1.4", Generator())
	assert.Contains(t, String(), "richdoc 1.4.0")
}

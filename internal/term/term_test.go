package term

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem(t *testing.T) {
	term := System()
	require.NotNil(t, term)
	require.Equal(t, os.Stdin, term.In())
	require.Equal(t, os.Stdout, term.Out())
	require.Equal(t, os.Stderr, term.ErrOut())
}

func TestFromIO(t *testing.T) {
	in, out, errOut := new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)
	term := FromIO(in, out, errOut)
	require.NotNil(t, term)
	assert.Same(t, in, term.In())
	assert.Same(t, out, term.Out())
	assert.Same(t, errOut, term.ErrOut())
	assert.False(t, term.IsTTY())
	assert.Equal(t, DefaultWidth, term.Width())
}

func TestColorWithoutTTY(t *testing.T) {
	out := new(bytes.Buffer)
	term := FromIO(nil, out, nil)

	_, err := term.Color(color.FgRed, color.Bold).Fprint(out, "failed")
	require.NoError(t, err)
	assert.Equal(t, "failed", out.String())
}

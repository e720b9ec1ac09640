package markdown

import (
	"bytes"
	"encoding/json"
	stderrors "errors"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrFrontmatterInvalid = stderrors.New("invalid frontmatter")

const (
	frontmatterFormatYAML = "yaml"
	frontmatterFormatJSON = "json"
	frontmatterFormatTOML = "toml"
)

// Frontmatter is the metadata header of a Markdown file, delimited by
// "---" for YAML or JSON and by "+++" for TOML.
type Frontmatter struct {
	ID    string `yaml:"id" json:"id" toml:"id"`
	Title string `yaml:"title" json:"title" toml:"title"`
	Kind  string `yaml:"kind" json:"kind" toml:"kind"`

	format string
}

// Format returns the syntax the frontmatter was written in.
func (f *Frontmatter) Format() string { return f.format }

// splitFrontmatter separates a leading frontmatter block, delimiters
// included, from the rest of source.
func splitFrontmatter(source []byte) (raw, rest []byte) {
	lines := bytes.SplitAfter(source, []byte{'\n'})
	if len(lines) < 2 {
		return nil, source
	}
	delim := bytes.TrimSpace(lines[0])
	if !bytes.Equal(delim, []byte("---")) && !bytes.Equal(delim, []byte("+++")) {
		return nil, source
	}
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), delim) {
			return bytes.Join(lines[:i+1], nil), bytes.Join(lines[i+1:], nil)
		}
	}
	return nil, source
}

func parseFrontmatter(raw []byte) (*Frontmatter, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	lines := bytes.Split(bytes.TrimRight(raw, "\r\n"), []byte{'\n'})
	if len(lines) < 2 || !bytes.Equal(bytes.TrimSpace(lines[0]), bytes.TrimSpace(lines[len(lines)-1])) {
		return nil, errors.WithStack(ErrFrontmatterInvalid)
	}
	raw = bytes.Join(lines[1:len(lines)-1], []byte{'\n'})

	parsers := []func([]byte, any) error{
		yaml.Unmarshal,
		json.Unmarshal,
		toml.Unmarshal,
	}
	parsersNames := []string{
		frontmatterFormatYAML,
		frontmatterFormatJSON,
		frontmatterFormatTOML,
	}

	var firstError error
	for idx, parser := range parsers {
		var f Frontmatter
		if err := parser(raw, &f); err != nil {
			if firstError == nil {
				firstError = errors.Wrap(err, "failed to parse frontmatter content")
			}
			continue
		}
		f.format = parsersNames[idx]
		return &f, nil
	}
	return nil, firstError
}

package cmd

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/henvic/httpretty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aischool/richdoc/internal/ansi"
	"github.com/aischool/richdoc/internal/config"
	"github.com/aischool/richdoc/internal/config/autoconfig"
	"github.com/aischool/richdoc/internal/term"
	"github.com/aischool/richdoc/pkg/document"
	"github.com/aischool/richdoc/pkg/document/markdown"
)

const (
	formatAuto     = "auto"
	formatJSON     = "json"
	formatText     = "text"
	formatMarkdown = "markdown"
)

var httpTimeout = 10 * time.Second

// newBuilder returns the dependency builder with the persistent flags
// applied on top of the configuration.
func newBuilder() (*autoconfig.Builder, error) {
	b := autoconfig.NewBuilder()
	if !verbose {
		return b, nil
	}
	err := b.Decorate(func(c *config.Config) *config.Config {
		c.Log.Enabled = true
		c.Log.Verbose = true
		return c
	})
	return b, err
}

// invoke calls function with its arguments built by autoconfig.
func invoke(function interface{}) error {
	b, err := newBuilder()
	if err != nil {
		return err
	}
	return b.Invoke(function)
}

func termFor(cmd *cobra.Command) *term.Term {
	return term.FromIO(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// readInput reads a file, an https:// URL, or stdin when name is "-".
func readInput(ctx context.Context, cmd *cobra.Command, name string) ([]byte, error) {
	switch {
	case name == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, errors.Wrap(err, "failed to read from stdin")

	case strings.HasPrefix(name, "https://"):
		ctx, cancel := context.WithTimeout(ctx, httpTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, name, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid url %q", name)
		}
		resp, err := httpClient(cmd.ErrOrStderr()).Do(req)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get a file %q", name)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return nil, errors.Errorf("failed to get a file %q: %s", name, resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		return data, errors.Wrap(err, "failed to read body")

	default:
		data, err := os.ReadFile(name)
		return data, errors.Wrapf(err, "failed to read file %q", name)
	}
}

// pathConfig returns the configuration for the input name. Local relative
// paths get the root file overridden by every richdoc.yaml in the
// directories leading to them. Other inputs use c.
func pathConfig(loader *config.Loader, c *config.Config, name string) (*config.Config, error) {
	if name == "-" || strings.HasPrefix(name, "https://") {
		return c, nil
	}
	rel := filepath.ToSlash(filepath.Clean(name))
	if !fs.ValidPath(rel) {
		return c, nil
	}
	cfg, err := loader.Load(rel)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config for %q", name)
	}
	return cfg, nil
}

// httpClient logs requests and responses to out in verbose mode.
func httpClient(out io.Writer) *http.Client {
	if !verbose {
		return http.DefaultClient
	}
	logger := &httpretty.Logger{
		Time:            true,
		Colors:          term.FromIO(nil, out, out).IsTTY(),
		RequestHeader:   true,
		ResponseHeader:  true,
		ResponseBody:    true,
		Formatters:      []httpretty.Formatter{&httpretty.JSONFormatter{}},
		MaxResponseBody: 50000,
	}
	logger.SetOutput(out)
	return &http.Client{Transport: logger.RoundTripper(http.DefaultTransport)}
}

// detectFormat picks the input format from the file extension.
func detectFormat(name, format string) string {
	if format != formatAuto && format != "" {
		return format
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return formatMarkdown
	case ".txt":
		return formatText
	default:
		return formatJSON
	}
}

// parseDocument turns input data into a document. JSON input may be a
// document, a legacy string or null; text input is a legacy string.
func parseDocument(data []byte, format string) (document.Document, error) {
	switch format {
	case formatJSON:
		return document.Decode(bytes.NewReader(data))
	case formatText:
		return document.Resolve(ansi.StripString(strings.TrimRight(string(data), "\r\n"))), nil
	case formatMarkdown:
		return markdown.Convert(data)
	default:
		return nil, errors.Errorf("invalid format: %s", format)
	}
}

func loadDocument(cmd *cobra.Command, name, format string) (document.Document, error) {
	data, err := readInput(cmd.Context(), cmd, name)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(data, detectFormat(name, format))
	return doc, errors.Wrapf(err, "failed to parse %q", name)
}

func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", formatAuto, "Input format (auto, json, text, markdown).")
}

// writeDocumentFile replaces the file name with the JSON of doc.
func writeDocumentFile(name string, doc document.Document) error {
	var buf bytes.Buffer
	if err := document.Encode(&buf, doc); err != nil {
		return errors.Wrap(err, "failed to encode document")
	}
	return errors.Wrapf(os.WriteFile(name, buf.Bytes(), 0o600), "failed to write %q", name)
}

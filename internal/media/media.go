// Package media turns image files into URLs that image blocks can point to,
// either inline as data URLs or through an Uploader.
package media

import (
	"context"
	"encoding/base64"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// MaxDataURLSize limits the size of files inlined as data URLs.
const MaxDataURLSize = 10 << 20

var ErrTooLarge = errors.New("file is too large to inline")

// Uploader stores a file and returns a durable URL for it.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// IsImage reports whether the MIME type t describes an image.
func IsImage(t string) bool {
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}

// DataURL reads r into a base64 data URL. When mimeType is empty it is
// detected from the content. It returns the URL and the MIME type used.
func DataURL(r io.Reader, mimeType string) (string, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDataURLSize+1))
	if err != nil {
		return "", "", errors.Wrap(err, "failed to read file")
	}
	if len(data) > MaxDataURLSize {
		return "", "", ErrTooLarge
	}

	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}

	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(data)))
	_, _ = b.WriteString("data:")
	_, _ = b.WriteString(mimeType)
	_, _ = b.WriteString(";base64,")
	_, _ = b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), mimeType, nil
}

package media

import (
	"bytes"
	"context"
	"image"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/internal/ulid"
)

// MaxUploadSize limits the size of uploaded files.
const MaxUploadSize = 32 << 20

var ErrNotImage = errors.New("file is not an image")

// Local stores uploads in a filesystem served under BaseURL.
type Local struct {
	fs       billy.Filesystem
	baseURL  string
	maxWidth int
	logger   *zap.Logger
}

type LocalOption func(*Local)

// WithMaxWidth downscales raster images wider than width. Zero keeps
// images as they are.
func WithMaxWidth(width int) LocalOption {
	return func(l *Local) {
		l.maxWidth = width
	}
}

func WithLogger(logger *zap.Logger) LocalOption {
	return func(l *Local) {
		l.logger = logger
	}
}

func NewLocal(fs billy.Filesystem, baseURL string, opts ...LocalOption) *Local {
	l := &Local{
		fs:      fs,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	l.logger = l.logger.Named("media.Local")
	return l
}

var _ Uploader = (*Local)(nil)

// Upload stores the image read from r under a new unique name and returns
// its URL. name is only used for its extension when the content type
// cannot be detected.
func (l *Local) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.WithStack(err)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", errors.Wrap(err, "failed to read upload")
	}
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}

	detected := mimetype.Detect(data)
	if !IsImage(detected.String()) {
		return "", errors.Wrapf(ErrNotImage, "%s is %s", name, detected.String())
	}

	ext := detected.Extension()
	if ext == "" {
		ext = strings.ToLower(path.Ext(name))
	}

	data, err = l.downscale(data, ext)
	if err != nil {
		return "", err
	}

	filename := strings.ToLower(ulid.GenerateID()) + ext
	if err := util.WriteFile(l.fs, filename, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", filename)
	}

	l.logger.Debug("stored upload", zap.String("name", name), zap.String("file", filename), zap.Int("size", len(data)))

	return l.baseURL + "/" + filename, nil
}

// downscale resizes images wider than the configured width. Formats the
// imaging package cannot encode are stored unchanged.
func (l *Local) downscale(data []byte, ext string) ([]byte, error) {
	if l.maxWidth <= 0 {
		return data, nil
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return data, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= l.maxWidth {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	resized := imaging.Resize(img, l.maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, errors.Wrap(err, "failed to encode image")
	}
	l.logger.Debug("downscaled image", zap.Int("from", cfg.Width), zap.Int("to", l.maxWidth))
	return buf.Bytes(), nil
}

// Open returns the stored file with the given name.
func (l *Local) Open(name string) (billy.File, error) {
	f, err := l.fs.Open(path.Base(name))
	return f, errors.WithStack(err)
}

package editor

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/internal/media"
)

// File is a file picked, dropped or pasted into the editor.
type File struct {
	Name string
	// MIME is the type reported by the source. It is detected from the
	// content when empty.
	MIME string
	Open func() (io.ReadCloser, error)
}

// Data is the payload of a paste or drop.
type Data struct {
	Files []File
	Text  string
}

// InsertData inserts a paste or drop payload. Files are read in the
// background and inserted as images; otherwise text that is an image URL
// becomes an image and any other text is inserted at the cursor.
func (e *Editor) InsertData(ctx context.Context, data Data) {
	if len(data.Files) > 0 {
		e.InsertFiles(ctx, data.Files...)
		return
	}
	if data.Text != "" {
		e.Dispatch(InsertData(data.Text))
	}
}

// InsertFiles reads every file into a data URL on its own goroutine and
// inserts an image when a read finishes. Images are inserted in completion
// order. Files that fail to read or are not images are logged and dropped.
func (e *Editor) InsertFiles(ctx context.Context, files ...File) {
	for _, f := range files {
		if f.MIME != "" && !media.IsImage(f.MIME) {
			e.logger.Debug("skipping non-image file", zap.String("name", f.Name), zap.String("mime", f.MIME))
			continue
		}

		e.pending.Add(1)
		go func(f File) {
			defer e.pending.Done()

			url, err := e.readFile(ctx, f)
			if err != nil {
				e.logger.Info("failed to read file", zap.String("name", f.Name), zap.Error(err))
				return
			}
			e.Dispatch(InsertImage(url))
		}(f)
	}
}

func (e *Editor) readFile(ctx context.Context, f File) (string, error) {
	if err := e.reads.Acquire(ctx, 1); err != nil {
		return "", errors.WithStack(err)
	}
	defer e.reads.Release(1)

	if f.Open == nil {
		return "", errors.Errorf("file %q has no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return "", errors.Wrapf(err, "failed to open %q", f.Name)
	}
	defer func() { _ = rc.Close() }()

	url, mime, err := media.DataURL(rc, f.MIME)
	if err != nil {
		return "", err
	}
	if !media.IsImage(mime) {
		return "", errors.Errorf("file %q is %s, not an image", f.Name, mime)
	}
	return url, nil
}

// UploadImage uploads f through the configured uploader and inserts an
// image with the returned URL.
func (e *Editor) UploadImage(ctx context.Context, f File) error {
	if e.uploader == nil {
		return errors.New("editor has no uploader")
	}
	if f.Open == nil {
		return errors.Errorf("file %q has no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, "failed to open %q", f.Name)
	}
	defer func() { _ = rc.Close() }()

	url, err := e.uploader.Upload(ctx, f.Name, rc)
	if err != nil {
		return errors.Wrapf(err, "failed to upload %q", f.Name)
	}
	e.logger.Debug("uploaded image", zap.String("name", f.Name), zap.String("url", url))
	e.Dispatch(InsertImage(url))
	return nil
}

package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aischool/richdoc/internal/ulid"
)

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.NRGBA{B: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIsImage(t *testing.T) {
	for mime, want := range map[string]bool{
		"image/png":                true,
		"image/svg+xml":            true,
		"image/jpeg; charset=utf8": true,
		"text/plain":               false,
		"application/pdf":          false,
		"":                         false,
		"not a mime":               false,
	} {
		assert.Equal(t, want, IsImage(mime), mime)
	}
}

func TestDataURL(t *testing.T) {
	data := pngImage(t, 1, 1)

	url, mime, err := DataURL(bytes.NewReader(data), "")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data), url)

	url, mime, err = DataURL(strings.NewReader("<svg/>"), "image/svg+xml")
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", mime)
	assert.Equal(t, "data:image/svg+xml;base64,PHN2Zy8+", url)
}

func TestDataURL_TooLarge(t *testing.T) {
	r := io.LimitReader(zeros{}, MaxDataURLSize+1)
	_, _, err := DataURL(r, "image/png")
	assert.ErrorIs(t, err, ErrTooLarge)
}

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestLocal_Upload(t *testing.T) {
	fs := memfs.New()
	l := NewLocal(fs, "/media/")

	url, err := l.Upload(context.Background(), "photo.png", bytes.NewReader(pngImage(t, 4, 4)))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/media/"), url)
	require.True(t, strings.HasSuffix(url, ".png"), url)

	f, err := l.Open(url)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width)
}

func TestLocal_UploadName(t *testing.T) {
	ulid.MockGenerator("01J9Z8Q4K5M6N7P8Q9R0S1T2V3")
	t.Cleanup(ulid.ResetGenerator)

	l := NewLocal(memfs.New(), "https://cdn.example.com/")
	url, err := l.Upload(context.Background(), "photo.PNG", bytes.NewReader(pngImage(t, 1, 1)))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/01j9z8q4k5m6n7p8q9r0s1t2v3.png", url)
}

func TestLocal_UploadUniqueNames(t *testing.T) {
	l := NewLocal(memfs.New(), "https://cdn.example.com")
	data := pngImage(t, 1, 1)

	a, err := l.Upload(context.Background(), "a.png", bytes.NewReader(data))
	require.NoError(t, err)
	b, err := l.Upload(context.Background(), "a.png", bytes.NewReader(data))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLocal_UploadDownscales(t *testing.T) {
	l := NewLocal(memfs.New(), "/media", WithMaxWidth(100))

	url, err := l.Upload(context.Background(), "wide.png", bytes.NewReader(pngImage(t, 400, 40)))
	require.NoError(t, err)

	f, err := l.Open(url)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 10, cfg.Height)
}

func TestLocal_UploadRejectsNonImages(t *testing.T) {
	l := NewLocal(memfs.New(), "/media")

	_, err := l.Upload(context.Background(), "notes.png", strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestLocal_UploadCanceled(t *testing.T) {
	l := NewLocal(memfs.New(), "/media")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.Upload(ctx, "a.png", bytes.NewReader(pngImage(t, 1, 1)))
	assert.ErrorIs(t, err, context.Canceled)
}

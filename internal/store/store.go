// Package store persists documents and course records keyed by an external
// identifier.
package store

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/gobwas/glob"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/pkg/document"
)

const ext = ".json"

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record id")
)

// Store reads and writes persisted records. Get upgrades legacy values the
// same way the editor and viewer do; GetRaw returns records as stored.
type Store interface {
	Get(ctx context.Context, id string) (document.Document, error)
	Set(ctx context.Context, id string, doc document.Document) error
	GetRaw(ctx context.Context, id string) ([]byte, error)
	SetRaw(ctx context.Context, id string, data []byte) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pattern string) ([]string, error)
}

// FS stores every record as a JSON file in a filesystem. Reads go through
// an in-memory cache that is updated on writes.
type FS struct {
	fs     billy.Filesystem
	cache  *cache.Cache
	logger *zap.Logger
}

type Option func(*FS)

// WithCacheTTL sets how long records stay cached. A negative value
// disables expiry.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *FS) {
		s.cache = cache.New(ttl, purgeInterval(ttl))
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *FS) {
		s.logger = logger
	}
}

func purgeInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return 2 * ttl
}

func NewFS(fs billy.Filesystem, opts ...Option) *FS {
	s := &FS{fs: fs}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = cache.New(10*time.Minute, 20*time.Minute)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.Named("store.FS")
	return s
}

var _ Store = (*FS)(nil)

func (s *FS) Get(ctx context.Context, id string) (document.Document, error) {
	data, err := s.GetRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := document.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", id)
	}
	return doc, nil
}

func (s *FS) Set(ctx context.Context, id string, doc document.Document) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", id)
	}
	return s.SetRaw(ctx, id, data)
}

func (s *FS) GetRaw(ctx context.Context, id string) ([]byte, error) {
	if err := checkID(ctx, id); err != nil {
		return nil, err
	}
	if v, ok := s.cache.Get(id); ok {
		return append([]byte(nil), v.([]byte)...), nil
	}

	f, err := s.fs.Open(id + ext)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, id)
		}
		return nil, errors.Wrapf(err, "failed to open %s", id)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", id)
	}
	s.cache.Set(id, data, cache.DefaultExpiration)
	s.logger.Debug("loaded record", zap.String("id", id), zap.Int("size", len(data)))
	return data, nil
}

func (s *FS) SetRaw(ctx context.Context, id string, data []byte) error {
	if err := checkID(ctx, id); err != nil {
		return err
	}
	if err := util.WriteFile(s.fs, id+ext, data, 0o600); err != nil {
		s.cache.Delete(id)
		return errors.Wrapf(err, "failed to write %s", id)
	}
	s.cache.Set(id, append([]byte(nil), data...), cache.DefaultExpiration)
	s.logger.Debug("stored record", zap.String("id", id), zap.Int("size", len(data)))
	return nil
}

func (s *FS) Delete(ctx context.Context, id string) error {
	if err := checkID(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(id)
	if err := s.fs.Remove(id + ext); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(ErrNotFound, id)
		}
		return errors.Wrapf(err, "failed to remove %s", id)
	}
	return nil
}

// List returns the sorted ids matching the glob pattern. An empty pattern
// matches every record.
func (s *FS) List(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if pattern == "" {
		pattern = "*"
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}

	infos, err := s.fs.ReadDir(".")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to list records")
	}

	var ids []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if g.Match(id) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func checkID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	if id == "" || id == "." || id == ".." || path.Base(id) != id || strings.ContainsAny(id, `\/`) {
		return errors.Wrapf(ErrInvalidID, "%q", id)
	}
	return nil
}

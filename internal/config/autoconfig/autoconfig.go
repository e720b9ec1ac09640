// autoconfig creates the components richdoc commands need, like
// [store.Store], [media.Uploader] and [zap.Logger], from [config.Config].
//
// For example, to get the document store, you can write:
//
//	autoconfig.NewBuilder().Invoke(func(s store.Store) error {
//	    ...
//	})
//
// Treat it as a dependency injection mechanism. Tests replace providers
// with [Builder.Decorate].
package autoconfig

import (
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/aischool/richdoc/internal/config"
	"github.com/aischool/richdoc/internal/log"
	"github.com/aischool/richdoc/internal/media"
	"github.com/aischool/richdoc/internal/store"
	"github.com/aischool/richdoc/pkg/document/editor"
	"github.com/aischool/richdoc/pkg/document/viewer"
)

const (
	configName = "richdoc"
	configType = "yaml"
)

type Builder struct {
	container *dig.Container
}

// NewBuilder returns a builder providing every component. The config is
// read from richdoc.yaml in the current directory.
func NewBuilder() *Builder {
	c := dig.New()
	mustProvide(c.Provide(getLoader))
	mustProvide(c.Provide(getConfig))
	mustProvide(c.Provide(getLogger))
	mustProvide(c.Provide(getStore))
	mustProvide(c.Provide(getUploader))
	mustProvide(c.Provide(getViewerOptions))
	mustProvide(c.Provide(getEditorOptions))
	return &Builder{container: c}
}

func mustProvide(err error) {
	if err != nil {
		panic("failed to provide: " + err.Error())
	}
}

// Decorate replaces how a component is built, for example the config
// loader in tests.
func (b *Builder) Decorate(decorator interface{}, opts ...dig.DecorateOption) error {
	return errors.WithStack(b.container.Decorate(decorator, opts...))
}

// Invoke calls function with its arguments built from the configuration.
func (b *Builder) Invoke(function interface{}, opts ...dig.InvokeOption) error {
	err := b.container.Invoke(function, opts...)
	return dig.RootCause(err)
}

func getLoader() (*config.Loader, error) {
	return config.NewLoader(configName, configType, os.DirFS(".")), nil
}

func getConfig(loader *config.Loader) (*config.Config, error) {
	return loader.RootConfigOrDefault()
}

func getLogger(c *config.Config) (*zap.Logger, error) {
	l := log.New(log.Options{
		Enabled:    c.Log.Enabled,
		Path:       c.Log.Path,
		Verbose:    c.Log.Verbose,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	})
	log.Replace(l)
	return l, nil
}

func getStore(c *config.Config, logger *zap.Logger) (store.Store, error) {
	if err := os.MkdirAll(c.Store.Dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "failed to create store dir")
	}
	return store.NewFS(
		osfs.New(c.Store.Dir, osfs.WithBoundOS()),
		store.WithCacheTTL(c.Store.CacheTTL),
		store.WithLogger(logger),
	), nil
}

func getUploader(c *config.Config, logger *zap.Logger) (media.Uploader, error) {
	if err := os.MkdirAll(c.Media.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create media dir")
	}
	return media.NewLocal(
		osfs.New(c.Media.Dir, osfs.WithBoundOS()),
		c.Media.BaseURL,
		media.WithMaxWidth(c.Media.MaxWidth),
		media.WithLogger(logger),
	), nil
}

func getViewerOptions(c *config.Config, logger *zap.Logger) []viewer.Option {
	return ViewerOptions(c, logger)
}

// ViewerOptions returns the viewer options c selects. Commands use it for
// configs resolved per input path.
func ViewerOptions(c *config.Config, logger *zap.Logger) []viewer.Option {
	opts := []viewer.Option{viewer.WithLogger(logger)}
	if c.Render.Sanitize {
		opts = append(opts, viewer.WithSanitizer(viewer.DefaultPolicy()))
	}
	return opts
}

func getEditorOptions(c *config.Config, logger *zap.Logger, uploader media.Uploader) []editor.Option {
	return []editor.Option{
		editor.WithLogger(logger),
		editor.WithPlaceholder(c.Editor.Placeholder),
		editor.WithMaxConcurrentReads(c.Editor.MaxConcurrentReads),
		editor.WithUploader(uploader),
	}
}

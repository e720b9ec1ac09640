package config

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrRootConfigNotFound = errors.New("root configuration file not found")

// Loader finds richdoc configuration files in a file system. A root file
// applies everywhere; files in nested directories override it for the
// documents below them.
type Loader struct {
	// configRootPath is the directory holding the root configuration file,
	// typically the current working directory.
	configRootPath fs.FS

	// configName is a name of the configuration file.
	configName string

	// configType is a type of the configuration file.
	// Together with configName it forms a configFile.
	configType string

	// contentRootPath is where nested configuration files are searched.
	// It defaults to configRootPath.
	contentRootPath fs.FS

	logger *zap.Logger
}

type LoaderOption func(*Loader)

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

func WithContentRootPath(contentRootPath fs.FS) LoaderOption {
	return func(l *Loader) {
		l.contentRootPath = contentRootPath
	}
}

func NewLoader(configName, configType string, configRootPath fs.FS, opts ...LoaderOption) *Loader {
	if configName == "" {
		panic("config name is not set")
	}

	l := &Loader{
		configRootPath: configRootPath,
		configName:     configName,
		configType:     configType,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = zap.NewNop()
	}

	return l
}

func (l *Loader) configFullName() string {
	if l.configType == "" {
		return l.configName
	}
	return l.configName + "." + l.configType
}

func (l *Loader) SetConfigRootPath(configRootPath fs.FS) {
	l.configRootPath = configRootPath
}

// Load returns the configuration for the file or directory at name: the
// defaults, overridden by the root file and then by every nested file on
// the way to name. Without any file the defaults are returned.
func (l *Loader) Load(name string) (*Config, error) {
	chain, err := l.FindConfigChain(name)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	for i, data := range chain {
		version, err := parseVersionFromYAML(data)
		if err != nil {
			return nil, err
		}
		if version != currentVersion {
			return nil, errors.Errorf("unknown version: %s", version)
		}
		if err := decodeYAML(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config %d in chain", i)
		}
	}
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to validate %s config", currentVersion)
	}

	l.logger.Debug("loaded config", zap.Int("files", len(chain)))
	return cfg, nil
}

// FindConfigChain returns the contents of the root configuration file and
// of the nested ones on the path to name, outermost first.
func (l *Loader) FindConfigChain(path string) ([][]byte, error) {
	paths, err := l.findConfigFilesOnPath(path)
	if err != nil {
		return nil, err
	}
	return l.readFiles(paths...)
}

func (l *Loader) RootConfig() ([]byte, error) {
	data, err := fs.ReadFile(l.configRootPath, l.configFullName())
	if err != nil {
		return nil, ErrRootConfigNotFound
	}
	return data, nil
}

// RootConfigOrDefault parses the root configuration file, falling back to
// the defaults when it does not exist.
func (l *Loader) RootConfigOrDefault() (*Config, error) {
	data, err := l.RootConfig()
	if errors.Is(err, ErrRootConfigNotFound) {
		l.logger.Debug("root configuration file not found, using defaults")
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

func (l *Loader) findConfigFilesOnPath(name string) (result []string, _ error) {
	name, err := l.parsePath(name)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("finding config files on path", zap.String("name", name))

	configFullName := l.configFullName()

	// Find the root configuration file and add it to the result if exists.
	// It is always searched in the config root directory.
	_, err = fs.Stat(l.configRootPath, configFullName)
	if err == nil {
		result = append(result, configFullName)
	} else if !errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("root configuration file not found", zap.Error(err))
		return nil, err
	}

	// Detect the file system to use for nested configuration files.
	fsys := l.configRootPath
	if l.contentRootPath != nil {
		fsys = l.contentRootPath
	}

	// Split the path and iterate over the fragments to find nested configuration files.
	fragments := strings.Split(name, string(filepath.Separator))
	if len(fragments) > 0 && fragments[0] == "." {
		fragments = fragments[1:]
	}
	l.logger.Debug("path fragments", zap.Strings("fragments", fragments))

	curDir := ""
	for _, fragment := range fragments {
		// Use [path.Join] instead of [filepath.Join] to support Windows paths.
		// It works well with [fs.FS].
		curDir = path.Join(curDir, fragment)

		configPath := path.Join(curDir, configFullName)
		l.logger.Debug("checking nested configuration file", zap.String("path", configPath))
		_, err := fs.Stat(fsys, configPath)
		if err == nil {
			result = append(result, configPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("nested configuration file not found", zap.String("path", configPath), zap.Error(err))
			return nil, err
		}
	}

	l.logger.Debug("found config files on path", zap.String("name", name), zap.Strings("files", result))

	return result, nil
}

func (l *Loader) parsePath(name string) (string, error) {
	if name == "" {
		name = "."
	}

	fsys := l.configRootPath
	if l.contentRootPath != nil {
		fsys = l.contentRootPath
	}

	info, err := fs.Stat(fsys, name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get the path info for %q", name)
	}

	if info.IsDir() {
		return filepath.Clean(name), nil
	}
	return filepath.Dir(name), nil
}

func (l *Loader) readFiles(paths ...string) (result [][]byte, _ error) {
	for i, path := range paths {
		fsys := l.configRootPath
		if l.contentRootPath != nil && (i > 0 || path != l.configFullName()) {
			fsys = l.contentRootPath
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		result = append(result, data)
	}
	return result, nil
}

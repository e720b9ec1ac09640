package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const currentVersion = "v1"

// Config is the configuration of richdoc read from richdoc.yaml.
type Config struct {
	Version string       `yaml:"version" validate:"required,eq=v1"`
	Log     ConfigLog    `yaml:"log"`
	Store   ConfigStore  `yaml:"store"`
	Media   ConfigMedia  `yaml:"media"`
	Editor  ConfigEditor `yaml:"editor"`
	Render  ConfigRender `yaml:"render"`
}

type ConfigLog struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Verbose bool   `yaml:"verbose"`
	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB  int `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int `yaml:"max_backups" validate:"gte=0"`
}

type ConfigStore struct {
	Dir      string        `yaml:"dir" validate:"required"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type ConfigMedia struct {
	Dir      string `yaml:"dir" validate:"required"`
	BaseURL  string `yaml:"base_url" validate:"required"`
	MaxWidth int    `yaml:"max_width" validate:"gte=0"`
}

type ConfigEditor struct {
	Placeholder        string `yaml:"placeholder"`
	MaxConcurrentReads int    `yaml:"max_concurrent_reads" validate:"gte=1,lte=64"`
}

type ConfigRender struct {
	// Sanitize passes rendered HTML through the default sanitizer policy.
	Sanitize bool `yaml:"sanitize"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseYAML parses data on top of the defaults. Fields missing from data
// keep their default values.
func ParseYAML(data []byte) (*Config, error) {
	version, err := parseVersionFromYAML(data)
	if err != nil {
		return nil, err
	}
	if version != currentVersion {
		return nil, errors.Errorf("unknown version: %s", version)
	}

	cfg := Default()
	if err := decodeYAML(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s config", version)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to validate %s config", version)
	}
	return cfg, nil
}

type versionOnly struct {
	Version string `yaml:"version"`
}

func parseVersionFromYAML(data []byte) (string, error) {
	var result versionOnly

	if err := yaml.Unmarshal(data, &result); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal version")
	}

	return result.Version, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return errors.WithStack(dec.Decode(cfg))
}

func validateConfig(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.Errorf("%s: failed on %q", yamlPath(fe.Namespace()), fe.Tag())
		}
		return errors.WithStack(err)
	}

	for name, dir := range map[string]string{"store.dir": cfg.Store.Dir, "media.dir": cfg.Media.Dir} {
		if filepath.IsAbs(dir) {
			continue
		}
		if rel := filepath.Clean(dir); rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return errors.Errorf("%s: outside of the current working directory", name)
		}
	}

	return nil
}

// yamlPath turns a validator namespace like "Config.Editor.MaxConcurrentReads"
// into the yaml path "editor.max_concurrent_reads".
func yamlPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 0 && parts[0] == "Config" {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snakeCase(p)
	}
	return strings.Join(parts, ".")
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				_ = b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		_, _ = b.WriteRune(r)
	}
	return b.String()
}

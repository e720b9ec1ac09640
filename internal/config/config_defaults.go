package config

import (
	_ "embed"
)

//go:embed config.default.yaml
var defaultYAML []byte

var defaults Config

func init() {
	var cfg Config
	if err := decodeYAML(defaultYAML, &cfg); err != nil {
		panic(err)
	}
	if err := validateConfig(&cfg); err != nil {
		panic(err)
	}
	defaults = cfg
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	cfg := defaults
	return &cfg
}

// DefaultYAML returns the annotated built-in configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

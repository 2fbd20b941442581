// Package config loads runtime settings for scenario runs.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	// MaxMemory bounds the bytes a single scenario may charge. Zero means
	// unlimited.
	MaxMemory int64  `yaml:"max_memory" toml:"max_memory"`
	Verbosity int    `yaml:"verbosity" toml:"verbosity"`
	Format    string `yaml:"format" toml:"format"`
	// Parallel is the number of scenario files run at once.
	Parallel int `yaml:"parallel" toml:"parallel"`
}

func Default() Config {
	return Config{Format: FormatText, Parallel: 1}
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if c.MaxMemory < 0 {
		return errors.Errorf("max_memory must be >= 0, got %d", c.MaxMemory)
	}
	if c.Parallel < 1 {
		return errors.Errorf("parallel must be >= 1, got %d", c.Parallel)
	}
	if c.Verbosity < -1 {
		return errors.Errorf("verbosity must be >= -1, got %d", c.Verbosity)
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return errors.Errorf("unknown format: %q", c.Format)
	}
	return nil
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, errors.Errorf("%s: unsupported config extension %q", path, ext)
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

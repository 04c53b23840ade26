// Package config loads jetlint configuration.
//
// Configuration is TOML. Built-in defaults are loaded first and an optional
// config file is merged on top, so a file only needs the keys it changes.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"jetlint.dev/pkg/lint"
)

// DefaultPath is the config file picked up from the working directory when
// no explicit path is given.
const DefaultPath = "jetlint.toml"

// defaultConfig holds the built-in defaults, in the same format users write.
const defaultConfig = `
[log]
level = "info"

[lint]
use-before-declaration = true
unmatched-bracket = true
`

// Config is the fully resolved jetlint configuration.
type Config struct {
	Log  LogConfig  `koanf:"log"`
	Lint LintConfig `koanf:"lint"`
}

type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, or error.
	Level string `koanf:"level"`
}

type LintConfig struct {
	UseBeforeDeclaration bool `koanf:"use-before-declaration"`
	UnmatchedBracket     bool `koanf:"unmatched-bracket"`
}

// LintOptions maps the lint section onto linter options.
func (c *Config) LintOptions() lint.Options {
	return lint.Options{
		UseBeforeDeclaration: c.Lint.UseBeforeDeclaration,
		UnmatchedBracket:     c.Lint.UnmatchedBracket,
	}
}

// Load reads configuration from path merged over the built-in defaults.
//
// If path is empty, DefaultPath is used when it exists; otherwise only the
// defaults apply. An explicit path that cannot be read is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(defaultConfig)), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, "load default config")
	}

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config %s", path)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return &cfg, nil
}

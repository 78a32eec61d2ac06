// Package config loads the rsfront TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvVar names the environment variable holding a config file path.
const EnvVar = "RSFRONT_CONFIG"

// DefaultFile is looked up in the working directory when EnvVar is unset.
const DefaultFile = "rsfront.toml"

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Config holds the complete CLI configuration
type Config struct {
	Output OutputConfig `toml:"output"`
	Parse  ParseConfig  `toml:"parse"`
	REPL   REPLConfig   `toml:"repl"`
}

// OutputConfig controls where `rsfront parse` writes the tree
type OutputConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

// ParseConfig holds the frontend options
type ParseConfig struct {
	Debug      bool `toml:"debug"`
	DumpScopes bool `toml:"dump_scopes"`
	MaxDepth   int  `toml:"max_depth"`
}

// REPLConfig holds interactive mode settings
type REPLConfig struct {
	HistoryFile string `toml:"history_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.expandPaths()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromEnv loads the file named by RSFRONT_CONFIG, else ./rsfront.toml,
// else returns the defaults.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}
	return Default(), nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatYAML:
	default:
		return fmt.Errorf("output.format %q: want %q or %q", c.Output.Format, FormatText, FormatYAML)
	}
	if c.Parse.MaxDepth < 0 {
		return fmt.Errorf("parse.max_depth must not be negative, got %d", c.Parse.MaxDepth)
	}
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Output.Path == "" {
		c.Output.Path = "AST.txt"
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
	if c.Parse.MaxDepth == 0 {
		c.Parse.MaxDepth = 256
	}
	if c.REPL.HistoryFile == "" {
		c.REPL.HistoryFile = "~/.rsfront_history"
	}
}

// expandPaths expands environment variables and a leading ~ in file paths
func (c *Config) expandPaths() {
	c.Output.Path = expandPath(c.Output.Path)
	c.REPL.HistoryFile = expandPath(c.REPL.HistoryFile)
}

func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// Package config loads server configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables take priority over the config file.
const (
	EnvDBPath      = "DOCSEARCH_DB_PATH"
	EnvCorpusDir   = "DOCSEARCH_CORPUS_DIR"
	EnvSearchLimit = "DOCSEARCH_SEARCH_LIMIT"
)

// Config is the complete docsearch configuration.
type Config struct {
	// DBPath is the SQLite database file location.
	DBPath string `yaml:"db_path"`

	// CorpusDir is the directory of markdown documents to index.
	CorpusDir string `yaml:"corpus_dir"`

	// SearchLimit is the default result cap for search when the caller
	// does not supply one.
	SearchLimit int `yaml:"search_limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DBPath:      filepath.Join(home, ".docsearch", "index.db"),
		CorpusDir:   "docs",
		SearchLimit: 10,
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file entirely; a missing
// file at an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvCorpusDir); v != "" {
		c.CorpusDir = v
	}
	if v := os.Getenv(EnvSearchLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SearchLimit = n
		}
	}
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.SearchLimit < 1 {
		return fmt.Errorf("search_limit must be at least 1, got %d", c.SearchLimit)
	}
	return nil
}

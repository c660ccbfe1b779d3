// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied by MergeWithDefaults(Defaults()).
const (
	DefaultKeywordsPath   = "keywords.json"
	DefaultPort           = 8080
	DefaultParallel       = 4
	DefaultMaxUploadBytes = 10 << 20
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Storage
	KeywordsPath string `json:"keywords_path,omitempty"` // Path to the keyword set JSON file
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL connection URL for report history

	// Server
	Port           int   `json:"port,omitempty"`             // HTTP listen port
	MaxUploadBytes int64 `json:"max_upload_bytes,omitempty"` // Largest accepted resume upload

	// Behavior
	Parallel int  `json:"parallel,omitempty"` // Files scored concurrently by `score`
	Verbose  bool `json:"verbose,omitempty"`  // Print extracted sections and debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		KeywordsPath:   DefaultKeywordsPath,
		Port:           DefaultPort,
		MaxUploadBytes: DefaultMaxUploadBytes,
		Parallel:       DefaultParallel,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// The keyword file is not required to exist; it is created on first use.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.Parallel < 0 {
		return fmt.Errorf("config error: 'parallel' must be non-negative")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}

	if c.KeywordsPath != "" {
		if info, err := os.Stat(c.KeywordsPath); err == nil && info.IsDir() {
			return fmt.Errorf("config error: keywords path is a directory: %s", c.KeywordsPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.KeywordsPath == "" {
		result.KeywordsPath = defaults.KeywordsPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Parallel == 0 {
		result.Parallel = defaults.Parallel
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

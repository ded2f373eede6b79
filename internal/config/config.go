// Package config provides configuration loading and structs for the kotoba CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Vectors VectorsConfig `yaml:"vectors"`
	Search  SearchConfig  `yaml:"search"`
	Suggest SuggestConfig `yaml:"suggest"`
	Output  OutputConfig  `yaml:"output"`
}

// VectorsConfig holds vocabulary source settings.
type VectorsConfig struct {
	// Path is the vocabulary source: a text vector file (optionally .gz)
	// or a SQLite store produced by "kotoba import".
	Path string `yaml:"path"`
	// Format is auto, text, or sqlite; auto picks by extension.
	Format string `yaml:"format"`
	// Dimensions pins the expected vector width; 0 infers it.
	Dimensions int `yaml:"dimensions"`
	// MaxWords caps how many words are loaded; 0 means unlimited.
	MaxWords int `yaml:"max_words"`
	// Normalize L2-normalizes vectors on load.
	Normalize bool `yaml:"normalize"`
	// StorePath is where "kotoba import" writes the SQLite store.
	StorePath string `yaml:"store_path"`
}

// SearchConfig holds ranking limits.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// SuggestConfig holds "did you mean" settings for unknown words.
type SuggestConfig struct {
	Enabled        *bool `yaml:"enabled"`
	MaxDistance    int   `yaml:"max_distance"`
	MaxSuggestions int   `yaml:"max_suggestions"`
}

// EnabledOrDefault returns whether suggestions are enabled; defaults to
// true when unset.
func (s *SuggestConfig) EnabledOrDefault() bool {
	if s.Enabled != nil {
		return *s.Enabled
	}
	return true
}

// OutputConfig holds result rendering settings.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	if cfg.Vectors.Path != "" {
		cfg.Vectors.Path = expandPath(cfg.Vectors.Path, configDir)
	}
	cfg.Vectors.StorePath = expandPath(cfg.Vectors.StorePath, configDir)

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

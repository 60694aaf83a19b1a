// Package config loads the CLI configuration file for go-html2doc.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-html2doc/internal/fileutil"
	"github.com/alnah/go-html2doc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigExists    = errors.New("config file already exists")
)

// Bounds on configurable values.
const (
	MaxWorkers           = 64
	MaxArtifactSizeMBCap = 500
	MaxTimeoutMs         = 10 * 60 * 1000 // 10 minutes
)

// Config holds all configuration for document rendering.
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Output    OutputConfig    `yaml:"output"`
	Watermark WatermarkConfig `yaml:"watermark"`
	Pool      PoolConfig      `yaml:"pool"`
}

// RenderConfig bounds the render backends.
type RenderConfig struct {
	TimeoutMs         int `yaml:"timeoutMs"`         // Backend call timeout (default: 30000)
	FetchTimeoutMs    int `yaml:"fetchTimeoutMs"`    // Remote image fetch timeout (default: 10000)
	MaxArtifactSizeMB int `yaml:"maxArtifactSizeMB"` // Compression threshold (default: 10)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Default output directory (empty = current directory)
}

// WatermarkConfig bounds watermark input validation.
type WatermarkConfig struct {
	MaxTextLength int `yaml:"maxTextLength"` // Watermark text limit (default: 100)
}

// PoolConfig bounds concurrent browser instances.
type PoolConfig struct {
	Workers int `yaml:"workers"` // 0 = derive from CPU count
}

// Validate checks that configured values are within sane bounds.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if c.Render.TimeoutMs < 0 || c.Render.TimeoutMs > MaxTimeoutMs {
		return fmt.Errorf("render.timeoutMs: must be between 0 and %d, got %d", MaxTimeoutMs, c.Render.TimeoutMs)
	}
	if c.Render.FetchTimeoutMs < 0 || c.Render.FetchTimeoutMs > MaxTimeoutMs {
		return fmt.Errorf("render.fetchTimeoutMs: must be between 0 and %d, got %d", MaxTimeoutMs, c.Render.FetchTimeoutMs)
	}
	if c.Render.MaxArtifactSizeMB < 0 || c.Render.MaxArtifactSizeMB > MaxArtifactSizeMBCap {
		return fmt.Errorf("render.maxArtifactSizeMB: must be between 0 and %d, got %d", MaxArtifactSizeMBCap, c.Render.MaxArtifactSizeMB)
	}
	if c.Watermark.MaxTextLength < 0 {
		return fmt.Errorf("watermark.maxTextLength: must be non-negative, got %d", c.Watermark.MaxTextLength)
	}
	if c.Pool.Workers < 0 || c.Pool.Workers > MaxWorkers {
		return fmt.Errorf("pool.workers: must be between 0 and %d, got %d", MaxWorkers, c.Pool.Workers)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: all zero values, which
// the service layer replaces with its package defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// WriteDefault writes a starter configuration file at path with every
// recognized key at its zero value (meaning "use the built-in default").
// Refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	data, err := yamlutil.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	header := []byte("# go-html2doc configuration. Zero values use the built-in defaults.\n")
	if err := fileutil.AtomicWrite(path, append(header, data...), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-html2doc/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-html2doc", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

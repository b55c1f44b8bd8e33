// Package config loads the optional project configuration file for the
// annotation CLI. Configuration never overrides explicit CLI flags; it
// supplies the defaults an author would otherwise repeat on every run.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdpress/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidWindow   = errors.New("invalid window size")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits for shared-environment safety.
const (
	MaxPathLength   = 2048 // output paths, plugin directories
	MaxWindowTokens = 1000 // beyond this the window is effectively the document
)

// Config holds the project configuration for an annotation run.
type Config struct {
	Annotate AnnotateConfig `yaml:"annotate"`
	Output   OutputConfig   `yaml:"output"`
	Plugins  PluginsConfig  `yaml:"plugins"`
}

// AnnotateConfig tunes the auto-rule pass.
type AnnotateConfig struct {
	WindowBack    int `yaml:"windowBack"`    // explicit-directive lookbehind (0 = default)
	WindowForward int `yaml:"windowForward"` // explicit-directive lookahead (0 = default)
}

// OutputConfig defines output destinations.
type OutputConfig struct {
	Path   string `yaml:"path"`   // annotated HTML file (empty = stdout)
	Styles string `yaml:"styles"` // plugin stylesheet bundle (empty = not written)
}

// PluginsConfig defines plugin resolution options.
type PluginsConfig struct {
	File    string `yaml:"file"`    // plugin declaration YAML file
	BaseDir string `yaml:"baseDir"` // local plugin paths resolve against this
	DepsDir string `yaml:"depsDir"` // installed plugin packages live here
	Strict  bool   `yaml:"strict"`  // fail on any plugin load error
}

// Validate checks bounds and field lengths. Called automatically by
// LoadConfig, but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if c.Annotate.WindowBack < 0 || c.Annotate.WindowBack > MaxWindowTokens {
		return fmt.Errorf("%w: annotate.windowBack %d", ErrInvalidWindow, c.Annotate.WindowBack)
	}
	if c.Annotate.WindowForward < 0 || c.Annotate.WindowForward > MaxWindowTokens {
		return fmt.Errorf("%w: annotate.windowForward %d", ErrInvalidWindow, c.Annotate.WindowForward)
	}

	fields := []struct {
		name  string
		value string
	}{
		{"output.path", c.Output.Path},
		{"output.styles", c.Output.Styles},
		{"plugins.file", c.Plugins.File},
		{"plugins.baseDir", c.Plugins.BaseDir},
		{"plugins.depsDir", c.Plugins.DepsDir},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, MaxPathLength); err != nil {
			return err
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns an error if the file is not found (no silent
// fallback).
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
// Tries locations in order: current directory, ~/.config/mdpress/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "mdpress", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Package config loads dllup configuration from YAML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-dllup/internal/dateutil"
	"github.com/alnah/go-dllup/internal/fileutil"
	"github.com/alnah/go-dllup/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config directory.
const AppDir = "dllup"

// Environment variables overriding file values.
const (
	EnvMathCommand    = "DLLUP_MATH_COMMAND"
	EnvCacheDir       = "DLLUP_CACHE_DIR"
	EnvHighlightStyle = "DLLUP_HIGHLIGHT_STYLE"
	EnvRoot           = "DLLUP_ROOT"
)

// Field limits.
const (
	MaxPathLength    = 4096 // PATH_MAX on Linux
	MaxURLLength     = 2048 // Browser limit
	MaxCommandLength = 1024
	MaxStyleLength   = 64
	MaxSuffixLength  = 32
	MaxListDepth     = 64
	MaxMathTimeout   = 10 * time.Minute
)

// Config holds all configuration for rendering.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Math      MathConfig      `yaml:"math"`
	Highlight HighlightConfig `yaml:"highlight"`
	Render    RenderConfig    `yaml:"render"`
	Site      SiteConfig      `yaml:"site"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	LaTeX      bool   `yaml:"latex"`      // Write .tex instead of .html
	Page       bool   `yaml:"page"`       // Wrap HTML in the page template
	Style      string `yaml:"style"`      // Page stylesheet (default: default)
	Date       string `yaml:"date"`       // Footer date: "", "auto" or "auto:FORMAT"
}

// MathConfig defines the equation renderer and its cache.
type MathConfig struct {
	Command   string        `yaml:"command"`   // tex2svg-compatible program (default: tex2svg)
	CacheDir  string        `yaml:"cacheDir"`  // SVG cache directory (default: texcache)
	URLPrefix string        `yaml:"urlPrefix"` // Prefix of <img> sources (default: /texcache/)
	Timeout   time.Duration `yaml:"timeout"`   // Per equation (default: 30s)
}

// HighlightConfig defines code highlighting options.
type HighlightConfig struct {
	Style string `yaml:"style"` // chroma style name (default: monokai)
}

// RenderConfig defines markup rendering options.
type RenderConfig struct {
	ThumbnailSuffix string `yaml:"thumbnailSuffix"` // Resized image suffix (default: _600)
	MaxListDepth    int    `yaml:"maxListDepth"`    // Bullet nesting limit (default: 16)
}

// SiteConfig defines options used when pages are published on a site.
type SiteConfig struct {
	Root       string `yaml:"root"`       // Absolute site URL for social metadata
	Dimensions bool   `yaml:"dimensions"` // Look up image dimensions for metadata
	Database   string `yaml:"database"`   // Dimension cache (default: {cacheDir}/dimensions.db)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.style", c.Output.Style, MaxStyleLength},
		{"math.command", c.Math.Command, MaxCommandLength},
		{"math.cacheDir", c.Math.CacheDir, MaxPathLength},
		{"math.urlPrefix", c.Math.URLPrefix, MaxURLLength},
		{"highlight.style", c.Highlight.Style, MaxStyleLength},
		{"render.thumbnailSuffix", c.Render.ThumbnailSuffix, MaxSuffixLength},
		{"site.root", c.Site.Root, MaxURLLength},
		{"site.database", c.Site.Database, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if _, err := dateutil.Stamp(c.Output.Date, time.Time{}); err != nil {
		return fmt.Errorf("%w: output.date: %v", ErrInvalidValue, err)
	}
	if c.Math.Timeout < 0 || c.Math.Timeout > MaxMathTimeout {
		return fmt.Errorf("%w: math.timeout must be between 0 and %v, got %v", ErrInvalidValue, MaxMathTimeout, c.Math.Timeout)
	}
	if c.Render.MaxListDepth < 0 || c.Render.MaxListDepth > MaxListDepth {
		return fmt.Errorf("%w: render.maxListDepth must be between 0 and %d, got %d", ErrInvalidValue, MaxListDepth, c.Render.MaxListDepth)
	}
	if strings.ContainsAny(c.Render.ThumbnailSuffix, "/\\\x00") {
		return fmt.Errorf("%w: render.thumbnailSuffix contains a path separator", ErrInvalidValue)
	}
	if c.Site.Root != "" && !fileutil.IsURL(c.Site.Root) {
		return fmt.Errorf("%w: site.root must be an http(s) URL, got %q", ErrInvalidValue, c.Site.Root)
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

// DefaultConfig returns a configuration that renders HTML fragments next to
// their sources with all optional features disabled. Empty fields take the
// renderer defaults.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{DefaultDir: ""},
		Output: OutputConfig{DefaultDir: "", LaTeX: false, Page: false},
		Site:   SiteConfig{Dimensions: false},
		Assets: AssetsConfig{BasePath: ""},
	}
}

// ApplyEnv overrides fields from DLLUP_* environment variables. getenv is
// usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvMathCommand); v != "" {
		c.Math.Command = v
	}
	if v := getenv(EnvCacheDir); v != "" {
		c.Math.CacheDir = v
	}
	if v := getenv(EnvHighlightStyle); v != "" {
		c.Highlight.Style = v
	}
	if v := getenv(EnvRoot); v != "" {
		c.Site.Root = v
	}
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

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFile(configPath, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the candidate files for a config name, in lookup order.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/dllup/
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

package main

import (
	"errors"
	"fmt"

	"github.com/alnah/go-dllup/internal/config"
	"github.com/alnah/go-dllup/internal/fileutil"
	"github.com/alnah/go-dllup/internal/hints"
)

// loadSettings resolves the effective configuration.
// Precedence: CLI flags > environment > config file > defaults.
func loadSettings(flags *renderFlags, env *Environment) (*config.Config, error) {
	cfg, err := loadConfigFile(flags.common.config, env)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(env.Getenv)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile loads the named config, falling back to DLLUP_CONFIG and
// then to defaults when neither is set.
func loadConfigFile(name string, env *Environment) (*config.Config, error) {
	if name == "" {
		name = env.Getenv(envConfigName)
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *renderFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if flags.highlightStyle != "" {
		cfg.Highlight.Style = flags.highlightStyle
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}

	// Equations
	if flags.math.command != "" {
		cfg.Math.Command = flags.math.command
	}
	if flags.math.cacheDir != "" {
		cfg.Math.CacheDir = flags.math.cacheDir
	}
	if flags.math.timeout != 0 {
		cfg.Math.Timeout = flags.math.timeout
	}

	// Output mode
	if flags.out.latex {
		cfg.Output.LaTeX = true
	}
	if flags.out.page {
		cfg.Output.Page = true
	}
	if flags.out.style != "" {
		cfg.Output.Style = flags.out.style
	}
	if flags.out.date != "" {
		cfg.Output.Date = flags.out.date
	}

	// Site
	if flags.site.root != "" {
		cfg.Site.Root = flags.site.root
	}
	if flags.site.noDimensions {
		cfg.Site.Dimensions = false
	}
}

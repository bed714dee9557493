package dllup

import (
	"io"
	"time"

	"github.com/alnah/go-dllup/internal/logger"
)

// Option configures a Converter.
type Option func(*converterConfig)

// converterConfig holds the settings collected from options.
type converterConfig struct {
	cacheDir        string
	mathCommand     string
	mathTimeout     time.Duration
	mathURLPrefix   string
	mathRenderer    MathRenderer
	highlightStyle  string
	highlighter     Highlighter
	thumbnailSuffix string
	maxListDepth    int
	log             *logger.Logger
}

// WithCacheDir sets the directory holding rendered equation SVGs.
func WithCacheDir(dir string) Option {
	return func(c *converterConfig) {
		c.cacheDir = dir
	}
}

// WithMathCommand sets the tex2svg-compatible program used for equations.
func WithMathCommand(name string) Option {
	return func(c *converterConfig) {
		c.mathCommand = name
	}
}

// WithMathTimeout bounds each equation render. Panics if d is not positive.
func WithMathTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("dllup: WithMathTimeout duration must be positive")
	}
	return func(c *converterConfig) {
		c.mathTimeout = d
	}
}

// WithMathURLPrefix sets the prefix of equation image sources.
func WithMathURLPrefix(prefix string) Option {
	return func(c *converterConfig) {
		c.mathURLPrefix = prefix
	}
}

// WithMathRenderer replaces the external math program, for instance with an
// in-process renderer or a test fake. Results are still cached on disk.
func WithMathRenderer(r MathRenderer) Option {
	return func(c *converterConfig) {
		c.mathRenderer = r
	}
}

// WithHighlightStyle sets the chroma style used by HighlightCSS.
func WithHighlightStyle(style string) Option {
	return func(c *converterConfig) {
		c.highlightStyle = style
	}
}

// WithHighlighter replaces the code highlighter.
func WithHighlighter(h Highlighter) Option {
	return func(c *converterConfig) {
		c.highlighter = h
	}
}

// WithThumbnailSuffix sets the suffix of resized local images.
func WithThumbnailSuffix(suffix string) Option {
	return func(c *converterConfig) {
		c.thumbnailSuffix = suffix
	}
}

// WithMaxListDepth bounds bullet list nesting. Panics if n is not positive.
func WithMaxListDepth(n int) Option {
	if n <= 0 {
		panic("dllup: WithMaxListDepth must be positive")
	}
	return func(c *converterConfig) {
		c.maxListDepth = n
	}
}

// WithLogger writes equation and highlighting diagnostics to w. Debug
// output, such as renderer stderr, appears only when verbose is set.
func WithLogger(w io.Writer, verbose bool) Option {
	return func(c *converterConfig) {
		c.log = logger.New(w, verbose)
	}
}

package texmath

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"

	"github.com/alnah/go-dllup/internal/fileutil"
	"github.com/alnah/go-dllup/internal/logger"
)

// Defaults for Config fields left empty.
const (
	DefaultCacheDir  = "texcache"
	DefaultURLPrefix = "/texcache/"
	DefaultTimeout   = 30 * time.Second
)

// ErrCache wraps cache directory and file failures.
var ErrCache = errors.New("equation cache")

// Config configures a Bridge.
type Config struct {
	CacheDir  string
	URLPrefix string // prepended to "{key}.svg" in image references
	Renderer  Renderer
	Timeout   time.Duration // per uncached equation
	Log       *logger.Logger
}

// Bridge renders equations to cached SVG files and returns <img> references
// to them. It is safe for concurrent use; concurrent requests for the same
// equation share a single renderer invocation.
type Bridge struct {
	dir      string
	prefix   string
	renderer Renderer
	timeout  time.Duration
	log      *logger.Logger
	group    singleflight.Group
}

// New creates a Bridge, filling defaults for empty fields.
func New(cfg Config) *Bridge {
	b := &Bridge{
		dir:      cfg.CacheDir,
		prefix:   cfg.URLPrefix,
		renderer: cfg.Renderer,
		timeout:  cfg.Timeout,
		log:      cfg.Log,
	}
	if b.dir == "" {
		b.dir = DefaultCacheDir
	}
	if b.prefix == "" {
		b.prefix = DefaultURLPrefix
	}
	if b.timeout <= 0 {
		b.timeout = DefaultTimeout
	}
	if b.log == nil {
		b.log = logger.Discard()
	}
	if b.renderer == nil {
		b.renderer = NewCommand(DefaultCommand, b.log)
	}
	return b
}

// CacheDir returns the directory holding rendered equations.
func (b *Bridge) CacheDir() string {
	return b.dir
}

// RenderMath returns an <img> reference to the rendered equation, or "" when
// it cannot be rendered. Failures are logged with the offending source.
func (b *Bridge) RenderMath(ctx context.Context, source string, inline bool) string {
	key, svg, err := b.SVG(ctx, source, inline)
	if err != nil {
		b.log.Error("Equation error: %s: %v", source, err)
		return ""
	}

	size, err := readSVGSize(svg)
	if err != nil {
		b.log.Error("Equation error: %s: %v", source, err)
		return ""
	}

	return fmt.Sprintf(`<img src="%s%s.svg" alt="%s" style="%s"/>`,
		html.EscapeString(b.prefix), key, html.EscapeString(source), html.EscapeString(size.inlineStyle()))
}

// SVG returns the cache key and rendered SVG for an equation, invoking the
// renderer only when no non-empty cache file exists.
func (b *Bridge) SVG(ctx context.Context, source string, inline bool) (string, []byte, error) {
	key := Key(source, inline)
	path := filepath.Join(b.dir, key+".svg")

	if data, ok := readCached(path); ok {
		b.log.Debug("equation %s: cached", key)
		return key, data, nil
	}

	for {
		v, err, shared := b.group.Do(key, func() (any, error) {
			// Another caller may have finished while we waited for the group.
			if data, ok := readCached(path); ok {
				return data, nil
			}
			return b.render(ctx, path, source, inline)
		})
		// A shared render runs under the context of the caller that started
		// it. When that caller went away, render again under our own.
		if err != nil && shared && errors.Is(err, context.Canceled) && ctx.Err() == nil {
			continue
		}
		if err != nil {
			return key, nil, err
		}
		return key, v.([]byte), nil
	}
}

func (b *Bridge) render(ctx context.Context, path, source string, inline bool) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	data, err := b.renderer.Render(ctx, Prepare(source, inline), inline)
	if err != nil {
		return nil, err
	}
	b.log.Debug("equation %s: rendered in %v", filepath.Base(path), time.Since(start).Round(time.Millisecond))

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCache, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCache, err)
	}
	return data, nil
}

func readCached(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

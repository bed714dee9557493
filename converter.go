package dllup

import (
	"context"
	"fmt"
	"io"

	"github.com/alnah/go-dllup/internal/highlight"
	"github.com/alnah/go-dllup/internal/logger"
	"github.com/alnah/go-dllup/internal/markup"
	"github.com/alnah/go-dllup/internal/texmath"
)

// MathRenderer turns TeX source into an SVG document. The Converter prepares
// the source (display wrapper, bold greek letters) before calling it and
// caches the result by content hash.
type MathRenderer interface {
	Render(ctx context.Context, source string, inline bool) ([]byte, error)
}

// Highlighter renders a code block as HTML. An empty language asks the
// highlighter to guess.
type Highlighter interface {
	Highlight(code, language string) (string, error)
}

// Compile-time interface implementation checks.
var (
	_ markup.MathRenderer    = (*texmath.Bridge)(nil)
	_ markup.CodeHighlighter = (*highlight.Highlighter)(nil)
	_ MathRenderer           = (*texmath.Command)(nil)
	_ Highlighter            = (*highlight.Highlighter)(nil)
)

// Converter renders documents to HTML fragments or LaTeX bodies. It keeps no
// per-document state and is safe for concurrent use; documents rendered in
// parallel share only the equation cache.
type Converter struct {
	style    *highlight.Highlighter
	html     *markup.HTML
	latex    *markup.LaTeX
	cacheDir string
}

// NewConverter creates a Converter. Without options equations are rendered
// by the tex2svg program into ./texcache and code is highlighted by chroma.
// Returns ErrUnknownHighlightStyle if the highlight style does not exist.
func NewConverter(opts ...Option) (*Converter, error) {
	var cfg converterConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.Discard()
	}

	style, err := highlight.New(cfg.highlightStyle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownHighlightStyle, err)
	}

	var renderer texmath.Renderer
	if cfg.mathRenderer != nil {
		renderer = cfg.mathRenderer
	} else {
		renderer = texmath.NewCommand(cfg.mathCommand, cfg.log)
	}
	math := texmath.New(texmath.Config{
		CacheDir:  cfg.cacheDir,
		URLPrefix: cfg.mathURLPrefix,
		Renderer:  renderer,
		Timeout:   cfg.mathTimeout,
		Log:       cfg.log,
	})

	var hl markup.CodeHighlighter = style
	if cfg.highlighter != nil {
		hl = cfg.highlighter
	}

	mopts := markup.Options{
		Math:            math,
		Highlighter:     hl,
		ThumbnailSuffix: cfg.thumbnailSuffix,
		MaxListDepth:    cfg.maxListDepth,
		Log:             cfg.log,
	}

	return &Converter{
		style:    style,
		html:     markup.NewHTML(mopts),
		latex:    markup.NewLaTeX(mopts),
		cacheDir: math.CacheDir(),
	}, nil
}

// Render converts a document to an HTML fragment and collects its metadata.
// Markup errors never fail a render: unmatched delimiters stay literal, a
// failed equation renders empty and unknown code languages render plain.
// The only errors are context cancellation and internal panics.
func (c *Converter) Render(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, meta := c.html.Render(ctx, input.Source)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	md := Metadata(meta)
	if _, ok := md[MetaTitle]; !ok && input.Title != "" {
		md[MetaTitle] = input.Title
	}
	return &Result{HTML: out, Metadata: md}, nil
}

// RenderLaTeX converts a document to a LaTeX body. Equations stay TeX and
// code becomes lstlisting, so no external program is involved.
func (c *Converter) RenderLaTeX(ctx context.Context, input Input) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	out = c.latex.Render(ctx, input.Source)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return out, nil
}

// RenderInline renders a single span with the inline constructs only, for
// titles and captions that live outside a document.
func (c *Converter) RenderInline(ctx context.Context, text string) string {
	return c.html.Inline(ctx, text)
}

// HighlightCSS writes the stylesheet matching highlighted code blocks.
func (c *Converter) HighlightCSS(w io.Writer) error {
	return c.style.WriteCSS(w)
}

// HighlightStyle returns the name of the highlight style in use.
func (c *Converter) HighlightStyle() string {
	return c.style.StyleName()
}

// CacheDir returns the directory holding rendered equations.
func (c *Converter) CacheDir() string {
	return c.cacheDir
}

// HighlightStyles lists the available highlight style names.
func HighlightStyles() []string {
	return highlight.Styles()
}

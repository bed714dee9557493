package markup

import (
	"context"
	"html"

	"github.com/alnah/go-dllup/internal/logger"
)

// MathRenderer turns TeX source into inline markup. Implementations report
// their own failures and return "" for an equation they could not render.
type MathRenderer interface {
	RenderMath(ctx context.Context, source string, inline bool) string
}

// CodeHighlighter renders a code block as HTML. An empty language asks the
// highlighter to guess.
type CodeHighlighter interface {
	Highlight(code, language string) (string, error)
}

// DefaultMaxListDepth bounds bullet list nesting.
const DefaultMaxListDepth = 16

// DefaultThumbnailSuffix names the resized variant of local raster images.
const DefaultThumbnailSuffix = "_600"

// Options configures both dialects.
type Options struct {
	Math            MathRenderer    // nil renders equations as empty
	Highlighter     CodeHighlighter // nil renders code as plain <pre>
	ThumbnailSuffix string
	MaxListDepth    int
	Log             *logger.Logger
}

func (o Options) withDefaults() Options {
	if o.ThumbnailSuffix == "" {
		o.ThumbnailSuffix = DefaultThumbnailSuffix
	}
	if o.MaxListDepth <= 0 {
		o.MaxListDepth = DefaultMaxListDepth
	}
	if o.Log == nil {
		o.Log = logger.Discard()
	}
	return o
}

// plainCode renders code without highlighting.
func plainCode(code string) string {
	return "<pre>" + html.EscapeString(code) + "</pre>"
}

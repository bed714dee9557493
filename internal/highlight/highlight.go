// Package highlight renders code blocks to HTML with chroma.
package highlight

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used for the generated stylesheet.
const DefaultStyle = "monokai"

// Sentinel errors for highlighting failures.
var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownStyle    = errors.New("unknown highlight style")
)

// Highlighter renders code as class-annotated HTML. The matching stylesheet
// comes from WriteCSS.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New creates a Highlighter for the named chroma style.
func New(style string) (*Highlighter, error) {
	if style == "" {
		style = DefaultStyle
	}
	s, ok := styles.Registry[strings.ToLower(style)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	return &Highlighter{
		style:     s,
		formatter: chromahtml.New(chromahtml.WithClasses(true)), // CSS classes for smaller HTML and external stylesheet control
	}, nil
}

// Highlight renders code wrapped in <div class="highlight">. An empty language
// is guessed from the content and falls back to plain text; a language chroma
// does not know returns ErrUnknownLanguage.
func (h *Highlighter) Highlight(code, language string) (string, error) {
	lexer, err := lexerFor(code, language)
	if err != nil {
		return "", err
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", lexer.Config().Name, err)
	}

	var b strings.Builder
	b.WriteString(`<div class="highlight">`)
	if err := h.formatter.Format(&b, h.style, iterator); err != nil {
		return "", fmt.Errorf("formatting %s: %w", lexer.Config().Name, err)
	}
	b.WriteString("</div>")
	return b.String(), nil
}

// WriteCSS writes the stylesheet for the highlighter's style.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}

// StyleName returns the chroma style name.
func (h *Highlighter) StyleName() string {
	return h.style.Name
}

// Styles lists the available style names.
func Styles() []string {
	return styles.Names()
}

func lexerFor(code, language string) (chroma.Lexer, error) {
	if language != "" {
		lexer := lexers.Get(language)
		if lexer == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
		}
		return lexer, nil
	}
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer, nil
	}
	return lexers.Fallback, nil
}

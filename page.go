package dllup

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
)

// MetaTag is one <meta> element of a page head. Exactly one of Name and
// Property is set.
type MetaTag struct {
	Name     string
	Property string
	Content  string
}

// MetaTags builds the social and search tags for a page: one og:{key}
// property per metadata key in sorted order, a large-image twitter card
// when an image is known, the description, and a robots hint.
func MetaTags(meta Metadata) []MetaTag {
	tags := make([]MetaTag, 0, len(meta)+3)
	for _, k := range meta.Keys() {
		tags = append(tags, MetaTag{Property: "og:" + k, Content: meta[k]})
	}
	if _, ok := meta[MetaImage]; ok {
		tags = append(tags, MetaTag{Name: "twitter:card", Content: "summary_large_image"})
	}
	if d, ok := meta[MetaDescription]; ok {
		tags = append(tags, MetaTag{Name: "description", Content: d})
	}
	return append(tags, MetaTag{Name: "robots", Content: "max-image-preview:large"})
}

// PageData is the content of one standalone page.
type PageData struct {
	Title     string
	Body      string // rendered fragment, inserted verbatim
	Meta      Metadata
	Generated string // footer date, omitted when empty
	Signature string // source fingerprint, see Page.Signature
}

// Page wraps rendered fragments into complete HTML documents.
type Page struct {
	tmpl *template.Template
	css  string
}

// NewPage loads the page template and the named stylesheet from loader.
// extraCSS, typically the highlight stylesheet, is appended to the style.
func NewPage(loader AssetLoader, style, extraCSS string) (*Page, error) {
	if style == "" {
		style = DefaultStyle
	}

	content, err := loader.LoadTemplate(DefaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}
	tmpl, err := template.New("page").Parse(content + signatureTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	css, err := loader.LoadStyle(style)
	if err != nil {
		return nil, fmt.Errorf("loading style %q: %w", style, err)
	}
	if extraCSS != "" {
		css += "\n" + extraCSS
	}

	return &Page{tmpl: tmpl, css: sanitizeCSS(css)}, nil
}

// signatureTemplate is appended to every page template so a rebuild can
// recognize pages generated from an unchanged source.
const signatureTemplate = `{{with .Signature}}
{{.}}{{end}}`

// pageView is the value the template sees.
type pageView struct {
	Title     string
	Meta      []MetaTag
	CSS       template.CSS
	Body      template.HTML
	Generated string
	Signature template.HTML
}

// Render executes the page template.
func (p *Page) Render(ctx context.Context, data PageData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := pageView{
		Title:     data.Title,
		Meta:      MetaTags(data.Meta),
		CSS:       template.CSS(p.css),      // #nosec G203 -- trusted asset
		Body:      template.HTML(data.Body), // #nosec G203 -- rendered by Converter
		Generated: data.Generated,
	}
	if data.Signature != "" {
		view.Signature = template.HTML(Signature(data.Signature)) // #nosec G203 -- hex digest
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.Bytes(), nil
}

// Signature returns the fingerprint marker written into a page generated
// with the given signature, for comparison with an existing file.
func Signature(sig string) string {
	return "<!-- dllup:" + sig + " -->"
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

package markup

import (
	"context"
	"fmt"
	"html"
	"strings"
)

// HTML renders documents to HTML. It holds no per-document state and is
// safe for concurrent use; every Render works on a fresh State.
type HTML struct {
	opts Options
}

// NewHTML creates an HTML renderer.
func NewHTML(opts Options) *HTML {
	return &HTML{opts: opts.withDefaults()}
}

// Render converts a document and returns the HTML together with the
// metadata collected while rendering.
func (r *HTML) Render(ctx context.Context, text string) (string, Metadata) {
	d := &htmlDoc{ctx: ctx, opts: r.opts, st: NewState()}
	d.inline = d.inlineChain()
	d.rules = d.blockRules()
	return d.document(Normalize(text)), d.st.Meta
}

// Inline renders a single span of text with the inline chain only. Block
// constructs are not recognized and no state is kept.
func (r *HTML) Inline(ctx context.Context, text string) string {
	d := &htmlDoc{ctx: ctx, opts: r.opts, st: NewState()}
	return d.inlineChain()(Normalize(text))
}

// blockRule recognizes one paragraph construct.
type blockRule struct {
	name   string
	match  func(p string) bool
	render func(p string) string
}

func prefix(s string) func(string) bool {
	return func(p string) bool { return strings.HasPrefix(p, s) }
}

type htmlDoc struct {
	ctx    context.Context
	opts   Options
	st     *State
	inline Handler
	rules  []blockRule
}

// blockRules lists paragraph constructs in precedence order; the first match
// wins and unmatched paragraphs become ordinary paragraphs.
func (d *htmlDoc) blockRules() []blockRule {
	return []blockRule{
		{"heading", prefix("#"), d.heading},
		{"blockquote", prefix("> "), d.blockquote},
		{"pictures", prefix("pic "), d.pictures},
		{"equation", prefix("$ "), d.equation},
		{"bullets", prefix("* "), d.bullets},
		{"numbered", prefix("1. "), d.numbered},
		{"table", prefix("| "), d.table},
		{"button", prefix(":: "), d.button},
	}
}

// inlineChain lists inline constructs outermost first.
func (d *htmlDoc) inlineChain() Handler {
	chain := Chain(TypographyHTML,
		SplitStage(codeSpan, codeElement),
		SplitStage(mathSpan, d.inlineMath),
		RewriteStage(linkPattern, htmlLink),
		RewriteStage(refPattern, htmlRef),
		RewriteStage(citePattern, htmlCite),
		PassthroughStage,
		SplitStage(emDelim, wrap("<em>", "</em>", TypographyHTML)),
		SplitStage(strongDelim, wrap("<strong>", "</strong>", TypographyHTML)),
	)
	return func(s string) string { return chain(strings.TrimSpace(s)) }
}

func (d *htmlDoc) document(text string) string {
	header, body, hasHeader := SplitHeader(text)

	var head string
	if hasHeader {
		head = d.header(header)
	}
	out := d.body(body)

	toc := d.st.TOC()
	if !hasHeader && toc == "" {
		return out
	}
	return "<header>" + head + `<div class="toc">` + toc + "</div></header>" + out
}

func (d *htmlDoc) header(s string) string {
	paras := Paragraphs(s)
	d.st.Meta[KeyTitle] = plainTitle(paras[0])

	var b strings.Builder
	b.WriteString(`<h1 id="top">` + d.inline(paras[0]) + "</h1>")
	for _, p := range paras[1:] {
		b.WriteString("<p>" + d.inline(p) + "</p>")
	}
	return b.String()
}

// body splits fenced regions outermost first: verbatim, highlighted code,
// preformatted text, then paragraphs.
func (d *htmlDoc) body(s string) string {
	return Chain(d.paragraphs,
		SplitStage(verbatimFence, Identity),
		SplitStage(codeFence, d.code),
		SplitStage(preFence, plainCode),
	)("\n" + s + "\n")
}

func (d *htmlDoc) paragraphs(s string) string {
	var b strings.Builder
	for _, p := range Paragraphs(s) {
		if d.ctx.Err() != nil {
			break
		}
		b.WriteString(d.block(p))
	}
	return b.String()
}

func (d *htmlDoc) block(p string) string {
	if strings.TrimSpace(p) == "" {
		return ""
	}
	for _, rule := range d.rules {
		if rule.match(p) {
			return rule.render(p)
		}
	}
	return d.paragraph(p)
}

func (d *htmlDoc) code(payload string) string {
	language, code := splitLanguage(payload)
	if language != "" {
		code = strings.TrimSpace(code)
	}
	if d.opts.Highlighter == nil {
		return plainCode(code)
	}
	out, err := d.opts.Highlighter.Highlight(code, language)
	if err != nil {
		d.opts.Log.Warn("code block: %v", err)
		return plainCode(code)
	}
	return out
}

func (d *htmlDoc) heading(p string) string {
	depth := headingDepth(p, MaxHeadingDepth)
	number := d.st.OpenSection(depth)
	text := d.inline(p[depth:])
	d.st.AddTOCEntry(number, text)
	return fmt.Sprintf(`<h%d id="s%s"><a href="#s%s" class="hnum">%s</a> <span>%s</span></h%d>`,
		depth, number, number, number, text, depth)
}

func (d *htmlDoc) blockquote(p string) string {
	return "<blockquote>" + d.inline(p[2:]) + "</blockquote>"
}

func (d *htmlDoc) pictures(p string) string {
	var b strings.Builder
	b.WriteString(`<div class="pics">`)
	for _, line := range strings.Split(p, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pic := parsePicture(line)
		n := d.st.NextFigure()

		src, full := pic.Src, pic.Src
		if pic.FullSize != "" {
			full = pic.FullSize
		} else {
			src = thumbnail(pic.Src, d.opts.ThumbnailSuffix)
		}

		fmt.Fprintf(&b, `<figure id="fig%d"><a href="%s"><img src="%s" alt="%s"/></a>`,
			n, html.EscapeString(full), html.EscapeString(src), html.EscapeString(pic.Alt))
		fmt.Fprintf(&b, `<figcaption><a href="#fig%d" class="fignum">FIGURE %d</a> %s</figcaption></figure>`,
			n, n, d.inline(pic.Caption))

		d.st.Meta.SetOnce(KeyImage, src)
	}
	b.WriteString("</div>")
	return b.String()
}

func (d *htmlDoc) equation(p string) string {
	n := d.st.NextEquation()
	return fmt.Sprintf(`<div class="math" id="eq%d"><a href="#eq%d" class="eqnum">%d</a> %s</div>`,
		n, n, n, d.math(p[2:], false))
}

func (d *htmlDoc) bullets(p string) string {
	return d.bulletList(p, 1)
}

func (d *htmlDoc) bulletList(p string, level int) string {
	lead, items := listItems(p, '*', level, d.opts.MaxListDepth)
	out := d.inline(lead)
	if len(items) == 0 {
		return out
	}

	var b strings.Builder
	b.WriteString(out)
	b.WriteString("<ul>")
	for _, item := range items {
		b.WriteString("<li>" + d.bulletList(item, level+1) + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

func (d *htmlDoc) numbered(p string) string {
	var b strings.Builder
	b.WriteString("<ol>")
	for _, item := range numberedItems(p) {
		b.WriteString("<li>" + d.inline(item) + "</li>")
	}
	b.WriteString("</ol>")
	return b.String()
}

func (d *htmlDoc) table(p string) string {
	t := parseTable(p)
	n := d.st.NextTable()

	var b strings.Builder
	fmt.Fprintf(&b, `<figure id="table%d"><table>`, n)
	b.WriteString(d.row("th", t.Header))
	for _, row := range t.Rows {
		b.WriteString(d.row("td", row))
	}
	fmt.Fprintf(&b, `</table><figcaption><a href="#table%d" class="fignum">Table %d</a>`, n, n)
	if caption := d.inline(t.Caption); caption != "" {
		b.WriteString(" " + caption)
	}
	b.WriteString("</figcaption></figure>")
	return b.String()
}

func (d *htmlDoc) row(tag string, cells []string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		b.WriteString("<" + tag + ">" + d.inline(c) + "</" + tag + ">")
	}
	b.WriteString("</tr>")
	return b.String()
}

func (d *htmlDoc) button(p string) string {
	label, url := parseButton(p)
	return fmt.Sprintf(`<p><a href="%s" class="bigbutton">%s</a></p>`, html.EscapeString(url), d.inline(label))
}

func (d *htmlDoc) paragraph(p string) string {
	if _, ok := d.st.Meta[KeyDescription]; !ok {
		d.st.Meta[KeyDescription] = firstSentence(p)
	}
	return "<p>" + d.inline(p) + "</p>"
}

func (d *htmlDoc) inlineMath(source string) string {
	return d.math(source, true)
}

func (d *htmlDoc) math(source string, inline bool) string {
	if d.opts.Math == nil {
		return ""
	}
	return d.opts.Math.RenderMath(d.ctx, source, inline)
}

func codeElement(s string) string {
	return "<code>" + html.EscapeString(s) + "</code>"
}

func wrap(open, close string, inner Handler) Handler {
	return func(s string) string { return open + inner(s) + close }
}

func htmlLink(g []string) string {
	return pass(`<a href="`+html.EscapeString(g[2])+`">`) + g[1] + pass("</a>")
}

func htmlRef(g []string) string {
	name := html.EscapeString(g[1])
	return pass(`<span class="refname" id="` + name + `">` + name + `</span>`)
}

func htmlCite(g []string) string {
	name := html.EscapeString(g[1])
	return pass(`<a class="refname" href="#` + name + `">` + name + `</a>`)
}

package markup

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// MaxLaTeXHeadingDepth is the deepest sectioning command LaTeX output uses.
const MaxLaTeXHeadingDepth = 3

var (
	// (#fig3) cites figure 3 by label.
	labelCitePattern = regexp.MustCompile(`\(#([a-z]+)([0-9.]+)\)`)
	bibItemDelim     = regexp.MustCompile(`\n\*`)
)

// LaTeX renders documents to a LaTeX body. Like HTML it is safe for
// concurrent use.
type LaTeX struct {
	opts Options
}

// NewLaTeX creates a LaTeX renderer. Math and highlighting bridges are not
// used: equations stay TeX and code becomes lstlisting.
func NewLaTeX(opts Options) *LaTeX {
	return &LaTeX{opts: opts.withDefaults()}
}

// Render converts a document to LaTeX.
func (r *LaTeX) Render(ctx context.Context, text string) string {
	d := &latexDoc{ctx: ctx, opts: r.opts, st: NewState()}
	d.inline = d.inlineChain()
	d.rules = d.blockRules()
	return d.document(Normalize(text))
}

type latexDoc struct {
	ctx    context.Context
	opts   Options
	st     *State
	inline Handler
	rules  []blockRule
}

func (d *latexDoc) blockRules() []blockRule {
	return []blockRule{
		{"heading", prefix("#"), d.heading},
		{"blockquote", prefix("> "), d.blockquote},
		{"pictures", prefix("pic "), d.pictures},
		{"equation", prefix("$ "), d.equation},
		{"bibliography", prefix("* [#"), d.bibliography},
		{"bullets", prefix("* "), d.bullets},
		{"numbered", prefix("1. "), d.numbered},
		{"table", prefix("| "), d.table},
		{"button", prefix(":: "), d.button},
	}
}

func (d *latexDoc) inlineChain() Handler {
	chain := Chain(TypographyLaTeX,
		SplitStage(codeSpan, wrap(`\texttt{`, "}", EscapeLaTeX)),
		SplitStage(mathSpan, wrap("$", "$", Identity)),
		RewriteStage(linkPattern, latexLink),
		RewriteStage(refPattern, latexRef),
		RewriteStage(labelCitePattern, latexLabelCite),
		RewriteStage(citePattern, latexCite),
		PassthroughStage,
		SplitStage(emDelim, wrap(`\emph{`, "}", TypographyLaTeX)),
		SplitStage(strongDelim, wrap(`\textbf{`, "}", TypographyLaTeX)),
	)
	return func(s string) string { return chain(strings.TrimSpace(s)) }
}

func (d *latexDoc) document(text string) string {
	header, body, hasHeader := SplitHeader(text)
	out := d.body(body)
	if !hasHeader {
		return out
	}

	lines := make([]string, 0, 4)
	for _, p := range Paragraphs(header) {
		for _, line := range strings.Split(p, "\n") {
			lines = append(lines, d.inline(line))
		}
	}
	return `\title{` + strings.Join(lines, `\\`) + "}\n\\maketitle\n" + out
}

func (d *latexDoc) body(s string) string {
	return Chain(d.paragraphs,
		SplitStage(verbatimFence, Identity),
		SplitStage(codeFence, d.code),
		SplitStage(preFence, listing("")),
	)("\n" + s + "\n")
}

func (d *latexDoc) paragraphs(s string) string {
	var b strings.Builder
	for _, p := range Paragraphs(s) {
		if d.ctx.Err() != nil {
			break
		}
		if strings.TrimSpace(p) == "" {
			continue
		}
		b.WriteString(d.block(p))
	}
	return b.String()
}

func (d *latexDoc) block(p string) string {
	for _, rule := range d.rules {
		if rule.match(p) {
			return rule.render(p)
		}
	}
	return `\par ` + d.inline(p) + "\n"
}

func (d *latexDoc) code(payload string) string {
	language, code := splitLanguage(payload)
	return listing(language)(code)
}

func listing(language string) Handler {
	return func(code string) string {
		open := `\begin{lstlisting}`
		if language != "" {
			open += "[language=" + language + "]"
		}
		return open + "\n" + code + "\n\\end{lstlisting}\n"
	}
}

var sectionCommands = [MaxLaTeXHeadingDepth]string{`\section`, `\subsection`, `\subsubsection`}

func (d *latexDoc) heading(p string) string {
	depth := headingDepth(p, MaxLaTeXHeadingDepth)
	number := d.st.OpenSection(depth)
	return fmt.Sprintf("%s{%s}\n\\label{s%s}\n", sectionCommands[depth-1], d.inline(p[depth:]), number)
}

func (d *latexDoc) blockquote(p string) string {
	return "\\begin{quote}\n" + d.inline(p[2:]) + "\n\\end{quote}\n"
}

func (d *latexDoc) pictures(p string) string {
	var b strings.Builder
	for _, line := range strings.Split(p, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pic := parsePicture(line)
		n := d.st.NextFigure()
		fmt.Fprintf(&b, "\\begin{figure}[!htb]\n\\centering\n\\includegraphics[width=0.8\\textwidth]{%s}\n\\caption{\\small %s}\n\\label{fig%d}\n\\end{figure}\n",
			latexGraphic(pic.Src), d.inline(pic.Caption), n)
	}
	return b.String()
}

// latexGraphic maps an image source to a file LaTeX can include: remote
// images are expected next to the document under their base name and SVG is
// replaced by a PDF rendition.
func latexGraphic(src string) string {
	if isRemote(src) {
		src = path.Base(src)
	}
	if strings.HasSuffix(src, ".svg") {
		src = strings.TrimSuffix(src, ".svg") + ".pdf"
	}
	return src
}

func (d *latexDoc) equation(p string) string {
	n := d.st.NextEquation()
	return fmt.Sprintf("\\begin{align}\n\\label{eq%d}\n%s\n\\end{align}\n", n, strings.TrimSpace(p[2:]))
}

func (d *latexDoc) bibliography(p string) string {
	var items []string
	for _, entry := range Segments(p, bibItemDelim) {
		_, rest, ok := strings.Cut(entry, "[#")
		if !ok {
			continue
		}
		items = append(items, d.inline("[#"+rest))
	}
	return "\\begin{thebibliography}{99}\n" + strings.Join(items, "\n") + "\n\\end{thebibliography}\n"
}

func (d *latexDoc) bullets(p string) string {
	return d.bulletList(p, 1)
}

func (d *latexDoc) bulletList(p string, level int) string {
	lead, items := listItems(p, '*', level, d.opts.MaxListDepth)
	out := d.inline(lead)
	if len(items) == 0 {
		return out
	}

	var b strings.Builder
	b.WriteString(out)
	b.WriteString(`\begin{itemize}`)
	for _, item := range items {
		b.WriteString(`\item ` + d.bulletList(item, level+1) + "\n")
	}
	b.WriteString("\\end{itemize}\n")
	return b.String()
}

func (d *latexDoc) numbered(p string) string {
	var b strings.Builder
	b.WriteString("\\begin{enumerate}\n")
	for _, item := range numberedItems(p) {
		b.WriteString(`\item ` + d.inline(item) + "\n")
	}
	b.WriteString("\\end{enumerate}\n")
	return b.String()
}

func (d *latexDoc) table(p string) string {
	t := parseTable(p)
	n := d.st.NextTable()

	var b strings.Builder
	fmt.Fprintf(&b, "\\begin{table}[h]\n\\centering\n\\begin{tabular}{%s}\n", strings.Repeat("c", len(t.Header)))
	b.WriteString(d.row(t.Header) + ` \hline` + "\n")
	for _, row := range t.Rows {
		b.WriteString(d.row(row) + "\n")
	}
	b.WriteString("\\end{tabular}\n")
	if caption := d.inline(t.Caption); caption != "" {
		b.WriteString(`\caption{` + caption + "}\n")
	}
	fmt.Fprintf(&b, "\\label{table%d}\n\\end{table}\n", n)
	return b.String()
}

func (d *latexDoc) row(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = d.inline(c)
	}
	return strings.Join(out, " & ") + `\\`
}

func (d *latexDoc) button(p string) string {
	label, url := parseButton(p)
	return `\begin{center}\huge \href{` + url + "}{" + d.inline(label) + "}\\end{center}\n"
}

func latexLink(g []string) string {
	return pass(`\href{`+g[2]+"}{") + g[1] + pass("}")
}

func latexRef(g []string) string {
	return pass(`\bibitem{` + g[1] + "}")
}

func latexLabelCite(g []string) string {
	return pass(g[1] + `~\ref{` + g[1] + g[2] + "}")
}

func latexCite(g []string) string {
	return pass(`\cite{` + g[1] + "}")
}

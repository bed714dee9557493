// Package dllup renders dllup markup, a lightweight plain-text format, to
// HTML fragments or LaTeX bodies.
//
// # Quick Start
//
//	conv, err := dllup.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Render(ctx, dllup.Input{
//	    Source: "Title\n===\n# Hello\n\nSome _emphasis_ and **strong** text.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML, result.Metadata[dllup.MetaTitle])
//
// # Markup
//
// A document may start with a header (title line and intro paragraphs)
// separated from the body by a line holding only "===". Body paragraphs are
// separated by blank lines and classified by prefix:
//
//	# Heading          numbered sections, up to six levels
//	> quote            blockquote
//	pic a.jpg alt: cap figures, one per line
//	$ E = mc^2         numbered display equation
//	* item             bullet list, ** for nesting
//	1. item            numbered list
//	| a | b |          table, last line is the caption
//	:: label url       button link
//
// Fenced regions are delimited by lines holding ??? (verbatim HTML), ~~~
// (code; a first line "lang NAME" names the language) or ~~~~ (preformatted
// text).
// Inline constructs are `code`, $math$, [label](url), [#ref], (#ref),
// _emphasis_ and **strong**; a backslash makes any delimiter literal.
//
// # Rendering Pipeline
//
//  1. Header split and fenced regions (verbatim, code, preformatted)
//  2. Paragraph classification and block rendering with per-document
//     numbering of sections, figures, tables and equations
//  3. Inline chain, from code spans down to typographic substitution
//  4. Equations through an external tex2svg program, cached as SVG files
//     keyed by content hash; code through chroma
//
// Failures in the last step never fail a render: an equation that cannot
// be rendered comes out empty and a logged warning names its source.
//
// # Configuration
//
//	conv, err := dllup.NewConverter(
//	    dllup.WithCacheDir("public/texcache"),
//	    dllup.WithMathTimeout(time.Minute),
//	    dllup.WithHighlightStyle("github"),
//	    dllup.WithLogger(os.Stderr, false),
//	)
//
// # Pages
//
// Render returns a fragment. Page wraps fragments into standalone documents
// with social meta tags built from the metadata:
//
//	loader, _ := dllup.NewAssetLoader("")
//	page, _ := dllup.NewPage(loader, dllup.DefaultStyle, "")
//	out, _ := page.Render(ctx, dllup.PageData{
//	    Title: result.Metadata[dllup.MetaTitle],
//	    Body:  result.HTML,
//	    Meta:  result.Metadata,
//	})
//
// # Concurrency
//
// A Converter is safe for concurrent use. Each render owns its numbering
// and metadata; renders share only the equation cache, where concurrent
// requests for one equation run the renderer once.
package dllup

package markup

import "regexp"

// Passthrough delimits spans that earlier inline stages already resolved, so
// that emphasis, strong, and typography leave them alone. It is a Unicode
// private use character and never appears in normalized input.
const Passthrough = "\uE002" // U+E002: Private Use Area

// Inline delimiters and construct patterns, shared by both dialects.
var (
	codeSpan    = regexp.MustCompile("`")
	mathSpan    = regexp.MustCompile(`\$`)
	linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	refPattern  = regexp.MustCompile(`\[#([^\]]+)\]`)
	citePattern = regexp.MustCompile(`\(#([^)]+)\)`)
	emDelim     = regexp.MustCompile(`_`)
	strongDelim = regexp.MustCompile(`\*\*`)
)

// pass wraps already rendered output so later stages skip it.
func pass(s string) string {
	return Passthrough + s + Passthrough
}

// Typographic quote heuristics. They look only at the neighbouring character
// and therefore misplace some apostrophes and nested quotes; documents rely on
// this exact behaviour.
var (
	openDoubleWord  = regexp.MustCompile(`"([\p{L}\p{N}_])`)
	openDoubleSpace = regexp.MustCompile(`(\s)"`)
	openSingleWord  = regexp.MustCompile(`(^|[^\p{L}\p{N}_])'([\p{L}\p{N}_])`)
	openSingleSpace = regexp.MustCompile(`(\s)'`)
)

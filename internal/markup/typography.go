package markup

import (
	"html"
	"regexp"
	"strings"
)

var htmlPunctuation = strings.NewReplacer(
	"---", "—",
	"--", "–",
	`"`, "”",
	"'", "’",
	"...", "…",
)

// TypographyHTML applies curly quotes, dashes, and ellipses, removes escaping
// backslashes, and HTML-escapes the result.
func TypographyHTML(s string) string {
	s = openDoubleWord.ReplaceAllString(s, "“$1")
	s = openDoubleSpace.ReplaceAllString(s, "$1“")
	s = openSingleWord.ReplaceAllString(s, "$1‘$2")
	s = openSingleSpace.ReplaceAllString(s, "$1‘")
	return html.EscapeString(Unescape(htmlPunctuation.Replace(s)))
}

var (
	latexSpecials = strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"#", `\#`,
		"_", `\_`,
	)
	// Backslashes before letters start LaTeX commands and are kept.
	latexEscapedPunct = regexp.MustCompile(`\\([^A-Za-z])`)
)

// EscapeLaTeX escapes the characters LaTeX treats specially in running text.
func EscapeLaTeX(s string) string {
	return latexSpecials.Replace(s)
}

// TypographyLaTeX converts quotes to LaTeX quote ligatures, removes markup
// escapes, and escapes LaTeX specials. Backslash commands pass through.
func TypographyLaTeX(s string) string {
	s = openDoubleWord.ReplaceAllString(s, "``$1")
	s = openDoubleSpace.ReplaceAllString(s, "$1``")
	s = openSingleWord.ReplaceAllString(s, "$1`$2")
	s = openSingleSpace.ReplaceAllString(s, "$1`")
	s = strings.ReplaceAll(s, `"`, "''")
	return EscapeLaTeX(latexEscapedPunct.ReplaceAllString(s, "$1"))
}

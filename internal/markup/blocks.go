package markup

import (
	"path"
	"regexp"
	"strings"
)

// Region and paragraph delimiters.
var (
	verbatimFence = regexp.MustCompile(`\n\?\?\?\n`)
	codeFence     = regexp.MustCompile(`\n~~~\n`)
	preFence      = regexp.MustCompile(`\n~~~~\n`)
	blankLines    = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)*`)
	numberedItem  = regexp.MustCompile(`\n\d+\. `)
	tableRule     = regexp.MustCompile(`^[|\s-]*$`)
	cellDelim     = regexp.MustCompile(`\|`)
)

const (
	headerSeparator = "\n===\n"
	languageMarker  = "lang "
	fullSizeMarker  = " (full size: "
)

// Normalize prepares raw input: carriage returns are removed and the private
// passthrough marker is stripped so authors cannot forge it.
func Normalize(text string) string {
	return strings.NewReplacer("\r", "", Passthrough, "").Replace(text)
}

// SplitHeader separates the optional header from the body at the first
// standalone "===" line.
func SplitHeader(text string) (header, body string, ok bool) {
	header, body, ok = strings.Cut(text, headerSeparator)
	if !ok {
		return "", text, false
	}
	return header, body, true
}

// Paragraphs splits a plain region on blank lines.
func Paragraphs(s string) []string {
	return blankLines.Split(strings.TrimSpace(s), -1)
}

// headingDepth counts the leading '#' characters of p, capped at limit.
func headingDepth(p string, limit int) int {
	n := 0
	for n < len(p) && n < limit && p[n] == '#' {
		n++
	}
	return n
}

// firstSentence returns the text up to the first ". " with line breaks
// folded into spaces, always ending in a period.
func firstSentence(p string) string {
	s := strings.TrimSpace(strings.ReplaceAll(p, "\n", " "))
	s, _, _ = strings.Cut(s, ". ")
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

// plainTitle folds a header paragraph into one unescaped line.
func plainTitle(p string) string {
	return Unescape(strings.Join(strings.Fields(p), " "))
}

// picture is one line of a "pic" block:
//
//	pic SRC ALT: CAPTION (full size: URL)
type picture struct {
	Src      string
	Alt      string
	Caption  string
	FullSize string
}

func parsePicture(line string) picture {
	line = strings.TrimSpace(strings.TrimPrefix(line, "pic "))
	src, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	alt, caption, ok := strings.Cut(rest, ": ")
	if !ok {
		caption = alt
	}

	p := picture{Src: src, Alt: alt, Caption: caption}
	if c, full, ok := strings.Cut(caption, fullSizeMarker); ok {
		p.Caption = c
		p.FullSize = strings.TrimSuffix(full, ")")
	}
	return p
}

// isRemote reports whether src is an absolute web URL.
func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// thumbnail returns the pre-generated resized variant of a local raster
// image, or src unchanged when no variant applies.
func thumbnail(src, suffix string) string {
	if suffix == "" || isRemote(src) {
		return src
	}
	ext := path.Ext(src)
	if ext != ".png" && ext != ".jpg" {
		return src
	}
	stem := strings.TrimSuffix(src, ext)
	if strings.HasSuffix(stem, suffix) || strings.HasSuffix(stem, suffix+"@2x") {
		return src
	}
	return stem + suffix + ext
}

// listItems splits a bullet list paragraph at the given nesting level. lead
// is the text before the first marker; each item still carries its deeper
// levels. Beyond maxDepth nothing is split.
func listItems(p string, marker byte, level, maxDepth int) (lead string, items []string) {
	if maxDepth > 0 && level > maxDepth {
		return strings.TrimSpace(p), nil
	}
	parts := strings.Split("\n"+p, "\n"+strings.Repeat(string(marker), level)+" ")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts[0], parts[1:]
}

// numberedItems splits a "1. " paragraph into its items.
func numberedItems(p string) []string {
	return numberedItem.Split(strings.TrimPrefix(p, "1."), -1)
}

// table is a parsed "| " paragraph.
type table struct {
	Header  []string
	Rows    [][]string
	Caption string
}

func parseTable(p string) table {
	lines := strings.Split(p, "\n")
	t := table{Header: tableCells(lines[0])}
	if len(lines) < 2 {
		return t
	}
	t.Caption = lines[len(lines)-1]
	for _, line := range lines[1 : len(lines)-1] {
		if tableRule.MatchString(line) {
			continue
		}
		t.Rows = append(t.Rows, tableCells(line))
	}
	return t
}

// tableCells splits a row on unescaped pipes and drops blank cells.
func tableCells(line string) []string {
	var cells []string
	for _, c := range Segments(line, cellDelim) {
		if strings.TrimSpace(c) != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

// parseButton splits ":: LABEL URL" on the last space.
func parseButton(p string) (label, url string) {
	rest := strings.TrimSpace(strings.TrimPrefix(p, ":: "))
	i := strings.LastIndex(rest, " ")
	if i < 0 {
		return rest, rest
	}
	return strings.TrimSpace(rest[:i]), rest[i+1:]
}

// splitLanguage removes a leading "lang NAME" line from a code payload.
func splitLanguage(code string) (language, rest string) {
	first, tail, _ := strings.Cut(code, "\n")
	if !strings.HasPrefix(first, languageMarker) {
		return "", code
	}
	return strings.TrimSpace(strings.TrimPrefix(first, languageMarker)), tail
}

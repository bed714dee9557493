package markup

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Handler renders one segment of text.
type Handler func(string) string

// Identity passes a segment through untouched.
func Identity(s string) string { return s }

// Escaped reports whether the byte at index i is preceded by an odd number
// of backslashes.
func Escaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// Segments splits text at every unescaped match of delim and drops the
// delimiters. The result always has at least one element.
func Segments(text string, delim *regexp.Regexp) []string {
	var out []string
	start, pos := 0, 0
	for pos <= len(text) {
		loc := delim.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		s, e := pos+loc[0], pos+loc[1]
		if e == s || Escaped(text, s) {
			// Retry one rune further so an overlapping unescaped match is still found.
			_, w := utf8.DecodeRuneInString(text[s:])
			if w == 0 {
				break
			}
			pos = s + w
			continue
		}
		out = append(out, text[start:s])
		start, pos = e, e
	}
	return append(out, text[start:])
}

// Split cuts text at unescaped delimiters and renders even segments with
// outside and odd segments with inside, concatenating the results in order.
// An unmatched trailing delimiter leaves its tail to inside.
func Split(text string, delim *regexp.Regexp, inside, outside Handler) string {
	segs := Segments(text, delim)
	if len(segs) == 1 {
		return outside(segs[0])
	}

	var b strings.Builder
	for i, seg := range segs {
		if i%2 == 1 {
			b.WriteString(inside(seg))
		} else {
			b.WriteString(outside(seg))
		}
	}
	return b.String()
}

// Unescape removes escaping backslashes: `\x` becomes `x` and `\\` becomes a
// single backslash. A trailing lone backslash is dropped.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			if i < len(s) {
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// ReplaceUnescaped calls repl for every match of re whose delimiters are all
// unescaped. Delimiters are the matched characters outside capture groups, so
// `[a\](b)` is left alone. repl receives the full match followed by its
// submatches.
func ReplaceUnescaped(re *regexp.Regexp, s string, repl func(groups []string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		if Escaped(s, m[0]) || delimiterEscaped(s, m) {
			continue
		}
		groups := make([]string, len(m)/2)
		for g := range groups {
			if m[2*g] >= 0 {
				groups[g] = s[m[2*g]:m[2*g+1]]
			}
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(repl(groups))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// delimiterEscaped reports whether a character of match m that lies outside
// every capture group is escaped.
func delimiterEscaped(s string, m []int) bool {
	for i := m[0]; i < m[1]; i++ {
		if !inGroup(m, i) && Escaped(s, i) {
			return true
		}
	}
	return false
}

func inGroup(m []int, i int) bool {
	for g := 2; g+1 < len(m); g += 2 {
		if m[g] >= 0 && i >= m[g] && i < m[g+1] {
			return true
		}
	}
	return false
}

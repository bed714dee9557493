package markup

import (
	"strconv"
	"strings"
)

// MaxHeadingDepth is the deepest heading level the markup numbers.
const MaxHeadingDepth = 6

// Metadata keys filled while rendering.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyImage       = "image"
	KeyImageWidth  = "image:width"
	KeyImageHeight = "image:height"
)

// Metadata is the key/value bag extracted from a document.
type Metadata map[string]string

// SetOnce stores value under key unless the key already holds a value.
// It reports whether the value was stored.
func (m Metadata) SetOnce(key, value string) bool {
	if _, ok := m[key]; ok {
		return false
	}
	m[key] = value
	return true
}

// State accumulates everything a single document render mutates: section,
// figure, table, and equation counters, the table of contents, and metadata.
// A State belongs to one render and must not be shared.
type State struct {
	sections  [MaxHeadingDepth]int
	figures   int
	tables    int
	equations int
	toc       strings.Builder
	Meta      Metadata
}

// NewState returns a zeroed State.
func NewState() *State {
	return &State{Meta: Metadata{}}
}

// OpenSection advances the counter at depth (1-based), resets every deeper
// counter, updates the table-of-contents list structure, and returns the
// dotted section number such as "2.1.3".
func (s *State) OpenSection(depth int) string {
	if depth < 1 {
		depth = 1
	}
	if depth > MaxHeadingDepth {
		depth = MaxHeadingDepth
	}
	i := depth - 1

	for j := MaxHeadingDepth - 1; j > i; j-- {
		if s.sections[j] > 0 {
			s.toc.WriteString("</li></ol>")
			s.sections[j] = 0
		}
	}
	if s.sections[i] == 0 {
		s.toc.WriteString("<ol>")
	} else {
		s.toc.WriteString("</li>")
	}
	s.sections[i]++

	parts := make([]string, depth)
	for j := range parts {
		parts[j] = strconv.Itoa(s.sections[j])
	}
	return strings.Join(parts, ".")
}

// AddTOCEntry appends an open list item for a section. The item is closed by
// the next OpenSection at the same or a shallower depth, or by TOC.
func (s *State) AddTOCEntry(number, text string) {
	s.toc.WriteString(`<li><a href="#s`)
	s.toc.WriteString(number)
	s.toc.WriteString(`"><span class="tocnum">`)
	s.toc.WriteString(number)
	s.toc.WriteString(`</span> <span>`)
	s.toc.WriteString(text)
	s.toc.WriteString(`</span></a>`)
}

// TOC returns the table of contents with every open list closed. It is empty
// when the document has no headings.
func (s *State) TOC() string {
	if s.toc.Len() == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.toc.String())
	for j := MaxHeadingDepth - 1; j >= 0; j-- {
		if s.sections[j] > 0 {
			b.WriteString("</li></ol>")
		}
	}
	return b.String()
}

// NextFigure returns the next figure number.
func (s *State) NextFigure() int {
	s.figures++
	return s.figures
}

// NextTable returns the next table number.
func (s *State) NextTable() int {
	s.tables++
	return s.tables
}

// NextEquation returns the next equation number.
func (s *State) NextEquation() int {
	s.equations++
	return s.equations
}

package dllup

import (
	"maps"
	"slices"

	"github.com/alnah/go-dllup/internal/markup"
)

// Metadata keys filled while rendering.
const (
	MetaTitle       = markup.KeyTitle
	MetaDescription = markup.KeyDescription
	MetaImage       = markup.KeyImage
	MetaImageWidth  = markup.KeyImageWidth
	MetaImageHeight = markup.KeyImageHeight
)

// Metadata is the key/value bag collected during a render: the title, the
// first sentence as description, and the first image.
type Metadata map[string]string

// Keys returns the metadata keys in sorted order.
func (m Metadata) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Input is one document to render.
type Input struct {
	// Source is the document text.
	Source string

	// Title is used as the title metadata when the document has no header.
	// A header title always wins.
	Title string
}

// Result holds the rendered HTML fragment and its metadata.
type Result struct {
	HTML     string
	Metadata Metadata
}

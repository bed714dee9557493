package texmath

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoSVG is returned when renderer output has no <svg> element.
var ErrNoSVG = errors.New("output contains no svg element")

// svgSize holds the root attributes copied onto the <img> reference.
type svgSize struct {
	Style  string
	Height string
}

// inlineStyle merges the SVG style with its height, e.g.
// "vertical-align: -0.5ex;height:2.1ex;".
func (s svgSize) inlineStyle() string {
	style := strings.TrimSpace(s.Style)
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	if s.Height != "" {
		style += "height:" + s.Height + ";"
	}
	return style
}

// readSVGSize returns the style and height attributes of the first <svg>
// element in data.
func readSVGSize(data []byte) (svgSize, error) {
	z := html.NewTokenizer(bytes.NewReader(data))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return svgSize{}, err
			}
			return svgSize{}, ErrNoSVG
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "svg" {
				continue
			}
			var size svgSize
			for _, a := range tok.Attr {
				switch a.Key {
				case "style":
					size.Style = a.Val
				case "height":
					size.Height = a.Val
				}
			}
			return size, nil
		}
	}
}

package dllup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteRootURLs prefixes root-relative references ("/texcache/k.svg",
// "/blog/") with the site root so a page works from any host. If root is
// empty, returns the HTML unchanged.
//
// Rewrites img[src], a[href], link[href] and script[src]. Protocol-relative
// references ("//cdn") and everything else are left alone.
func RewriteRootURLs(htmlContent, root string) (string, error) {
	if root == "" {
		return htmlContent, nil
	}
	root = strings.TrimSuffix(root, "/")

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}
	rewriteNode(doc, root)
	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Parsing with a body context avoids the <html><body> wrapper.
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the tree back; fragments render their children only.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, root string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img, atom.Script:
			rewriteAttr(n, "src", root)
		case atom.A, atom.Link:
			rewriteAttr(n, "href", root)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, root)
	}
}

func rewriteAttr(n *html.Node, key, root string) {
	for i, attr := range n.Attr {
		if attr.Key == key && isRootRelative(attr.Val) {
			n.Attr[i].Val = root + attr.Val
		}
	}
}

// isRootRelative reports whether ref starts at the site root.
func isRootRelative(ref string) bool {
	return strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//")
}

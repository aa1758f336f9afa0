// Package extract converts HTML documents to plain narrative text so the
// validator and auditor can work on exported or externally authored pages,
// not only markdown.
package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText parses HTML and returns its visible text content. Script,
// style, noscript, and iframe subtrees are skipped. Block-level elements
// are separated by newlines so reference lines keep their line-leading
// citation markers.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteString("\n")
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}

// IsHTML reports whether content looks like an HTML document rather than
// markdown or plain text
func IsHTML(content string) bool {
	head := strings.ToLower(strings.TrimSpace(content))
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body")
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6",
		"section", "article", "br", "tr", "blockquote", "pre":
		return true
	}
	return false
}

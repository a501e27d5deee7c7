package parser

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// skippedElements are elements whose text is not page content.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// followedSchemes are the schemes of links handed back to the crawler.
var followedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"file":  true,
}

// document is the content extracted from one HTML page.
type document struct {
	// text is the visible text, one space between text nodes.
	text string

	// links are the absolute URLs of <a href> elements, in document order,
	// without fragments and without duplicates.
	links []string
}

// parseDocument parses HTML from r. Relative links are resolved against base.
func parseDocument(base *url.URL, r io.Reader) (*document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	links := make([]string, 0)
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if skippedElements[n.Data] {
				return
			}
			if n.Data == "a" {
				if link := resolveLink(base, getAttr(n, "href")); link != "" && !seen[link] {
					seen[link] = true
					links = append(links, link)
				}
			}
		case html.TextNode:
			text.WriteString(n.Data)
			text.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return &document{
		text:  text.String(),
		links: links,
	}, nil
}

// resolveLink resolves href against base and drops the fragment.
// It returns "" for empty, fragment-only and non-navigable links.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	resolved.Fragment = ""
	resolved.RawFragment = ""

	if !followedSchemes[strings.ToLower(resolved.Scheme)] {
		return ""
	}

	return resolved.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

package toc

import (
	"bytes"
	"fmt"
	"html"
)

// Generator renders one TOC page to a self-contained HTML document:
// a navigation block over every pageset, then the document list for
// the page itself.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders the page. basePath is the URL prefix under which TOC
// pages are published, eg. "/toc/base".
func (g *Generator) Run(page *Page, pagesets []*Pageset, items []DisplayItem, basePath string) (string, error) {
	if page == nil {
		return "", fmt.Errorf("no page to render")
	}

	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	buf.WriteString(fmt.Sprintf("  <meta charset=\"utf-8\">\n  <title>%s</title>\n", html.EscapeString(page.Title)))
	buf.WriteString("</head>\n<body>\n")

	buf.WriteString("  <ul role=\"navigation\">\n")
	for _, ps := range pagesets {
		buf.WriteString(fmt.Sprintf("    <li><p>%s</p>\n      <ul>\n", html.EscapeString(ps.Label)))
		for _, p := range ps.Pages {
			if p.Binding == page.Binding && p.Fragment == page.Fragment {
				// current page renders as plain text, not a link
				buf.WriteString(fmt.Sprintf("        <li>%s</li>\n", html.EscapeString(p.Linktext)))
			} else {
				href := fmt.Sprintf("%s/%s/%s.html", basePath, p.Binding, p.Fragment)
				buf.WriteString(fmt.Sprintf("        <li><a href=\"%s\">%s</a></li>\n",
					html.EscapeString(href), html.EscapeString(p.Linktext)))
			}
		}
		buf.WriteString("      </ul>\n    </li>\n")
	}
	buf.WriteString("  </ul>\n")

	buf.WriteString(fmt.Sprintf("  <h1>%s</h1>\n", html.EscapeString(page.Title)))
	buf.WriteString("  <ul role=\"main\">\n")
	for _, item := range items {
		buf.WriteString(fmt.Sprintf("    <li><a href=\"%s\">%s</a></li>\n",
			html.EscapeString(item.URI), html.EscapeString(item.Title)))
	}
	buf.WriteString("  </ul>\n</body>\n</html>\n")

	return buf.String(), nil
}

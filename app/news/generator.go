package news

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strconv"
	"time"
)

// Generator renders one archive file to an Atom document, including the
// RFC 5005 prev-archive/next-archive links that chain archive chunks to
// the main feed.
type Generator struct {
	AuthorName string
	AuthorURI  string
}

func NewGenerator(authorName, authorURI string) *Generator {
	return &Generator{AuthorName: authorName, AuthorURI: authorURI}
}

// Run renders the file. feedBaseURL is the URL prefix the feed files
// are published under, with a trailing slash, eg.
// "https://example.org/feed/base/".
func (g *Generator) Run(f *ArchiveFile, feedBaseURL string) (string, error) {
	if f == nil {
		return "", fmt.Errorf("no archive file to render")
	}

	selfURL := feedBaseURL + f.Filename()

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n")

	g.writeElement(&buf, "id", selfURL, 2)
	g.writeElement(&buf, "title", f.Title, 2)
	g.writeElement(&buf, "updated", f.Updated.UTC().Format(time.RFC3339), 2)

	buf.WriteString("  <author>\n")
	g.writeElement(&buf, "name", g.AuthorName, 4)
	if g.AuthorURI != "" {
		g.writeElement(&buf, "uri", g.AuthorURI, 4)
	}
	buf.WriteString("  </author>\n")

	g.writeLink(&buf, "self", selfURL, nil, 2)
	if f.PrevArchive != "" {
		g.writeLink(&buf, "prev-archive", feedBaseURL+f.PrevArchive, nil, 2)
	}
	if f.NextArchive != "" {
		g.writeLink(&buf, "next-archive", feedBaseURL+f.NextArchive, nil, 2)
	}

	for _, e := range f.Entries {
		g.writeEntry(&buf, e)
	}

	buf.WriteString("</feed>\n")
	return buf.String(), nil
}

func (g *Generator) writeEntry(buf *bytes.Buffer, e *Entry) {
	buf.WriteString("  <entry>\n")

	g.writeElement(buf, "id", e.URI, 4)
	g.writeElement(buf, "title", e.Title, 4)
	if e.Summary != "" {
		g.writeElement(buf, "summary", e.Summary, 4)
	}
	g.writeElement(buf, "published", e.Published.UTC().Format(time.RFC3339), 4)
	g.writeElement(buf, "updated", e.Updated.UTC().Format(time.RFC3339), 4)

	if e.URL != "" {
		g.writeLink(buf, "", e.URL, nil, 4)
	}
	if e.Link.Href != "" {
		attrs := map[string]string{}
		if e.Link.Type != "" {
			attrs["type"] = e.Link.Type
		}
		if e.Link.Length > 0 {
			attrs["length"] = strconv.FormatInt(e.Link.Length, 10)
		}
		if e.Link.Hash != "" {
			attrs["hash"] = e.Link.Hash
		}
		g.writeLink(buf, "alternate", e.Link.Href, attrs, 4)
	}

	switch {
	case e.Content.Markup != "":
		buf.WriteString(`    <content type="html">`)
		xml.EscapeText(buf, []byte(e.Content.Markup))
		buf.WriteString("</content>\n")
	case e.Content.Src != "":
		buf.WriteString(fmt.Sprintf("    <content src=\"%s\"", html.EscapeString(e.Content.Src)))
		if e.Content.Type != "" {
			buf.WriteString(fmt.Sprintf(" type=\"%s\"", html.EscapeString(e.Content.Type)))
		}
		if e.Content.Hash != "" {
			buf.WriteString(fmt.Sprintf(" hash=\"%s\"", html.EscapeString(e.Content.Hash)))
		}
		buf.WriteString("/>\n")
	}

	buf.WriteString("  </entry>\n")
}

func (g *Generator) writeLink(buf *bytes.Buffer, rel, href string, attrs map[string]string, indent int) {
	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteString("<link")
	if rel != "" {
		buf.WriteString(fmt.Sprintf(" rel=\"%s\"", html.EscapeString(rel)))
	}
	buf.WriteString(fmt.Sprintf(" href=\"%s\"", html.EscapeString(href)))
	for _, key := range []string{"type", "length", "hash"} {
		if v, ok := attrs[key]; ok {
			buf.WriteString(fmt.Sprintf(" %s=\"%s\"", key, html.EscapeString(v)))
		}
	}
	buf.WriteString("/>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/docanchor/internal/doctree"
)

// HTMLRenderer handles HTML and XHTML chapters.
type HTMLRenderer struct{}

func (p *HTMLRenderer) Render(r io.Reader, filename string) (*Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return fromParsed(doc, stripExt(filename)), nil
}

// fromParsed wraps a parsed document, preferring its <title> over the fallback.
func fromParsed(doc *html.Node, fallbackTitle string) *Document {
	d := &Document{
		Title: fallbackTitle,
		Root:  doc,
		Body:  doctree.FindElement(doc, "body"),
	}
	if title := textContent(doctree.FindElement(doc, "title")); title != "" {
		d.Title = title
	}
	return d
}

func textContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"github.com/dgallion1/docanchor/internal/doctree"
)

// MarkdownRenderer renders Markdown to HTML with goldmark and parses the result.
type MarkdownRenderer struct{}

func (p *MarkdownRenderer) Render(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := goldmark.New().Convert(src, &out); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	doc, err := html.Parse(&out)
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}
	d := fromParsed(doc, stripExt(filename))

	// The first top-level heading names the chapter.
	if h1 := doctree.FindElement(d.Body, "h1"); h1 != nil {
		if title := textContent(h1); title != "" {
			d.Title = title
		}
	}
	return d, nil
}

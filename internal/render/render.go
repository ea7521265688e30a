// Package render produces the document tree a chapter is displayed as.
//
// Every format ends up as an x/net/html tree so highlights are anchored the
// same way regardless of source. Rendering is deterministic: the same source
// always yields the same tree shape, which is what keeps stored paths valid.
package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/docanchor/internal/doctree"
)

// Renderer converts chapter source into a rendered Document.
type Renderer interface {
	Render(r io.Reader, filename string) (*Document, error)
}

// Document is one render pass of a chapter.
type Document struct {
	Title string
	Root  *html.Node // the #document node
	Body  *html.Node // anchoring container
}

// Container returns the node highlights are anchored relative to.
func (d *Document) Container() doctree.Node {
	if d.Body != nil {
		return doctree.FromHTML(d.Body)
	}
	return doctree.FromHTML(d.Root)
}

// SupportedExtensions lists file extensions this service can render.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".xhtml":    true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the renderer for a filename.
func ForFile(filename string) (Renderer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextRenderer{}, nil
	case ".md", ".markdown":
		return &MarkdownRenderer{}, nil
	case ".csv":
		return &CSVRenderer{}, nil
	case ".html", ".htm", ".xhtml":
		return &HTMLRenderer{}, nil
	case ".pdf":
		return &PDFRenderer{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// RenderFile renders r with the renderer chosen by filename.
func RenderFile(r io.Reader, filename string) (*Document, error) {
	rd, err := ForFile(filename)
	if err != nil {
		return nil, err
	}
	return rd.Render(r, filename)
}

func stripExt(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// skeleton builds html > (head, body) for renderers that do not go through html.Parse.
func skeleton(title string) *Document {
	doc := &html.Node{Type: html.DocumentNode}
	root := element("html")
	doc.AppendChild(root)
	head := element("head")
	root.AppendChild(head)
	if title != "" {
		t := element("title")
		t.AppendChild(textNode(title))
		head.AppendChild(t)
	}
	body := element("body")
	root.AppendChild(body)
	return &Document{Title: title, Root: doc, Body: body}
}

func element(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// appendParagraph adds <tag>text</tag> to parent.
func appendParagraph(parent *html.Node, tag, text string) {
	el := element(tag)
	el.AppendChild(textNode(text))
	parent.AppendChild(el)
}

// splitParagraphs splits on blank lines; lines within a paragraph keep their newline.
func splitParagraphs(text string) []string {
	var paragraphs []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs
}

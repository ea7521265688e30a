package render

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dgallion1/docanchor/internal/doctree"
)

const sampleMarkdown = `# Title

Intro text.

## Section A

Section A content with *emphasis*.

## Section B

Section B content.
`

func TestMarkdownRenderer_Structure(t *testing.T) {
	doc, err := (&MarkdownRenderer{}).Render(strings.NewReader(sampleMarkdown), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Title" {
		t.Errorf("expected title from h1 %q, got %q", "Title", doc.Title)
	}
	if doc.Body == nil {
		t.Fatal("expected a body element")
	}

	var tags []string
	for c := doc.Body.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			tags = append(tags, c.Data)
		}
	}
	want := []string{"h1", "p", "h2", "p", "h2", "p"}
	if strings.Join(tags, ",") != strings.Join(want, ",") {
		t.Errorf("expected tags %v, got %v", want, tags)
	}

	if em := doctree.FindElement(doc.Body, "em"); em == nil || textContent(em) != "emphasis" {
		t.Errorf("expected <em>emphasis</em> in rendered output")
	}
}

func TestMarkdownRenderer_NoHeadingKeepsFilename(t *testing.T) {
	doc, err := (&MarkdownRenderer{}).Render(strings.NewReader("just text"), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "plain" {
		t.Errorf("expected title %q, got %q", "plain", doc.Title)
	}
}

// Stored paths are only meaningful if rendering the same source twice
// yields the same shape.
func TestMarkdownRenderer_Deterministic(t *testing.T) {
	shape := func() []string {
		doc, err := (&MarkdownRenderer{}).Render(strings.NewReader(sampleMarkdown), "doc.md")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var out []string
		err = doctree.Walk(doc.Container(), func(n doctree.Node, depth int) error {
			out = append(out, strings.Repeat(" ", depth)+doctree.Label(n))
			return nil
		})
		if err != nil {
			t.Fatalf("walk: %v", err)
		}
		return out
	}

	a, b := shape(), shape()
	if strings.Join(a, "\n") != strings.Join(b, "\n") {
		t.Errorf("rendering is not deterministic:\n%v\n---\n%v", a, b)
	}
}

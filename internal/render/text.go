package render

import (
	"bufio"
	"io"
	"strings"
)

// TextRenderer handles plain text: one <p> per blank-line separated paragraph.
type TextRenderer struct{}

func (p *TextRenderer) Render(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var text strings.Builder
	for scanner.Scan() {
		text.WriteString(scanner.Text())
		text.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	d := skeleton(stripExt(filename))
	for _, para := range splitParagraphs(text.String()) {
		appendParagraph(d.Body, "p", para)
	}
	return d, nil
}

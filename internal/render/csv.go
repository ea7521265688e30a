package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// CSVRenderer renders a CSV file as a table; the first row is the header.
type CSVRenderer struct{}

func (p *CSVRenderer) Render(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	d := skeleton(stripExt(filename))
	if len(records) == 0 {
		return d, nil
	}

	table := element("table")
	d.Body.AppendChild(table)

	thead := element("thead")
	table.AppendChild(thead)
	thead.AppendChild(row("th", records[0]))

	tbody := element("tbody")
	table.AppendChild(tbody)
	for _, rec := range records[1:] {
		tbody.AppendChild(row("td", rec))
	}
	return d, nil
}

func row(cellTag string, cells []string) *html.Node {
	tr := element("tr")
	for _, cell := range cells {
		appendParagraph(tr, cellTag, cell)
	}
	return tr
}

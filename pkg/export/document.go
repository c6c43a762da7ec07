package export

import "fmt"

// Field is one labelled line of a report summary block.
type Field struct {
	Label string
	Value string
}

// Table is a rectangular grid whose rows align positionally with Headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Document is the renderer-neutral shape of a statistics report. Cell values
// arrive pre-formatted; renderers never reformat numbers.
type Document struct {
	Title    string
	Subtitle string
	Summary  []Field
	Table    Table
	Notes    []string
}

// Renderer turns a Document into file bytes.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
	Extension() string
}

func (t Table) validate() error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("table requires at least one header")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Headers))
		}
	}
	return nil
}

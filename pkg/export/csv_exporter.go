package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders documents as spreadsheet-friendly CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// ContentType implements Renderer.
func (e *CSVExporter) ContentType() string { return "text/csv" }

// Extension implements Renderer.
func (e *CSVExporter) Extension() string { return "csv" }

// Render writes the table first, then a blank separator and the summary block
// as label/value pairs.
func (e *CSVExporter) Render(doc Document) ([]byte, error) {
	if err := doc.Table.validate(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(doc.Table.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range doc.Table.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	if len(doc.Summary) > 0 {
		if err := writer.Write([]string{""}); err != nil {
			return nil, fmt.Errorf("write csv separator: %w", err)
		}
		for _, f := range doc.Summary {
			if err := writer.Write([]string{f.Label, f.Value}); err != nil {
				return nil, fmt.Errorf("write csv summary: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth       = 277.0 // A4 landscape minus margins
	firstColumnRate = 0.34
)

// PDFExporter renders documents into a landscape A4 report.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType implements Renderer.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render lays out title, subtitle, summary block, the table and trailing notes.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if err := doc.Table.validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, tr(doc.Title), "", 1, "C", false, 0, "")
	}
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	if len(doc.Summary) > 0 {
		for _, f := range doc.Summary {
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(50, 6, tr(f.Label), "", 0, "", false, 0, "")
			pdf.SetFont("Arial", "", 9)
			pdf.CellFormat(0, 6, tr(f.Value), "", 1, "", false, 0, "")
		}
		pdf.Ln(3)
	}

	widths := columnWidths(len(doc.Table.Headers))
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range doc.Table.Headers {
		pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range doc.Table.Rows {
		for i, value := range row {
			align := "C"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, tr(value), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(doc.Notes) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		for _, note := range doc.Notes {
			pdf.MultiCell(0, 5, tr(note), "", "L", false)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(n int) []float64 {
	widths := make([]float64, n)
	if n == 1 {
		widths[0] = pageWidth
		return widths
	}
	first := pageWidth * firstColumnRate
	rest := (pageWidth - first) / float64(n-1)
	widths[0] = first
	for i := 1; i < n; i++ {
		widths[i] = rest
	}
	return widths
}

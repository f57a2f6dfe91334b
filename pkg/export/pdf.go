package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Section is a titled block of paragraphs, e.g. one slide of a presentation.
type Section struct {
	Heading    string
	Paragraphs []string
}

// PDFRenderer lays out extracted document content on A4 pages with a license footer.
type PDFRenderer struct {
	footer string
}

// NewPDFRenderer constructs a renderer that prints footer at the bottom of every page.
func NewPDFRenderer(footer string) *PDFRenderer {
	return &PDFRenderer{footer: footer}
}

func (r *PDFRenderer) newDocument(title string) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if r.footer != "" {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-15)
			pdf.SetFont("Arial", "", 9)
			pdf.SetTextColor(128, 128, 128)
			pdf.CellFormat(0, 8, tr(r.footer), "", 0, "C", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		})
	}
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.MultiCell(0, 8, tr(title), "", "C", false)
		pdf.Ln(4)
	}
	return pdf, tr
}

// RenderSections writes each section as a heading followed by its paragraphs.
func (r *PDFRenderer) RenderSections(title string, sections []Section) ([]byte, error) {
	pdf, tr := r.newDocument(title)

	for i, s := range sections {
		if s.Heading != "" {
			if i > 0 {
				pdf.Ln(3)
			}
			pdf.SetFont("Arial", "B", 12)
			pdf.MultiCell(0, 7, tr(s.Heading), "", "L", false)
		}
		pdf.SetFont("Arial", "", 11)
		for _, p := range s.Paragraphs {
			pdf.MultiCell(0, 6, tr(p), "", "L", false)
			pdf.Ln(1)
		}
	}

	return output(pdf)
}

// RenderTables draws each dataset as a bordered table, one per page.
func (r *PDFRenderer) RenderTables(title string, tables []Dataset) ([]byte, error) {
	pdf, tr := r.newDocument(title)

	for i, table := range tables {
		if i > 0 {
			pdf.AddPage()
		}
		if table.Title != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, tr(table.Title), "", 1, "L", false, 0, "")
		}
		cols := len(table.Headers)
		for _, row := range table.Rows {
			if len(row) > cols {
				cols = len(row)
			}
		}
		if cols == 0 {
			continue
		}
		colWidth := 180.0 / float64(cols)

		pdf.SetFont("Arial", "B", 9)
		for c := 0; c < cols && len(table.Headers) > 0; c++ {
			pdf.CellFormat(colWidth, 7, tr(cell(table.Headers, c)), "1", 0, "C", false, 0, "")
		}
		if len(table.Headers) > 0 {
			pdf.Ln(-1)
		}

		pdf.SetFont("Arial", "", 9)
		for _, row := range table.Rows {
			for c := 0; c < cols; c++ {
				pdf.CellFormat(colWidth, 6, tr(cell(row, c)), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	return output(pdf)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

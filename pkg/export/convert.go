package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/share2teach-api/pkg/watermark"
)

var (
	// ErrAlreadyPDF is returned when the source is already a PDF.
	ErrAlreadyPDF = errors.New("export: file is already a PDF")
	// ErrNotConvertible is returned for formats without a converter.
	ErrNotConvertible = errors.New("export: file type cannot be converted to PDF")
)

// Converter renders supported document formats to PDF.
type Converter struct {
	renderer *PDFRenderer
}

// NewConverter builds a converter whose output pages carry footer.
func NewConverter(footer string) *Converter {
	return &Converter{renderer: NewPDFRenderer(footer)}
}

// ToPDF converts data of the given MIME type; title heads the first page.
func (c *Converter) ToPDF(mime, title string, data []byte) ([]byte, error) {
	switch mime {
	case watermark.MIMEPDF:
		return nil, ErrAlreadyPDF
	case watermark.MIMEText:
		return c.renderer.RenderSections(title, []Section{{Paragraphs: splitParagraphs(string(data))}})
	case watermark.MIMEDocx:
		paras, err := docxParagraphs(data)
		if err != nil {
			return nil, err
		}
		return c.renderer.RenderSections(title, []Section{{Paragraphs: paras}})
	case watermark.MIMEPptx:
		slides, err := pptxSlides(data)
		if err != nil {
			return nil, err
		}
		sections := make([]Section, len(slides))
		for i, paras := range slides {
			sections[i] = Section{Heading: fmt.Sprintf("Slide %d", i+1), Paragraphs: paras}
		}
		return c.renderer.RenderSections(title, sections)
	case watermark.MIMEXlsx:
		tables, err := workbookTables(data)
		if err != nil {
			return nil, err
		}
		return c.renderer.RenderTables(title, tables)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotConvertible, mime)
	}
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		if s := strings.TrimSpace(block); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// maxExpandedSize bounds how much of an office package is inflated for conversion.
const maxExpandedSize = 64 << 20

func workbookTables(data []byte) ([]Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{UnzipSizeLimit: maxExpandedSize})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var tables []Dataset
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		table := Dataset{Title: sheet}
		if len(rows) > 0 {
			table.Headers = rows[0]
			table.Rows = rows[1:]
		}
		tables = append(tables, table)
	}
	return tables, nil
}

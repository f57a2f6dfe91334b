package watermark

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Xlsx sets a centred odd-page footer with the notice on every worksheet.
func Xlsx(data []byte, text string) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{UnzipSizeLimit: MaxExpandedSize})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	for _, sheet := range f.GetSheetList() {
		if err := f.SetHeaderFooter(sheet, &excelize.HeaderFooterOptions{OddFooter: "&C" + text}); err != nil {
			return nil, fmt.Errorf("set footer on %s: %w", sheet, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

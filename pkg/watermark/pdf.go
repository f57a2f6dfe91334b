package watermark

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Centred footer, 12pt, 20pt above the bottom edge, grey.
const pdfStamp = "fontname:Helvetica, points:12, position:bc, offset:0 20, scalefactor:1 abs, rotation:0, fillcolor:#808080"

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// PDF stamps the notice onto every page.
func PDF(data []byte, text string) ([]byte, error) {
	wm, err := api.TextWatermark(text, pdfStamp, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("build pdf stamp: %w", err)
	}
	out := &bytes.Buffer{}
	conf := model.NewDefaultConfiguration()
	if err := api.AddWatermarks(bytes.NewReader(data), out, nil, wm, conf); err != nil {
		return nil, fmt.Errorf("stamp pdf: %w", err)
	}
	return out.Bytes(), nil
}

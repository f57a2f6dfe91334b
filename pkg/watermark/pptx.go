package watermark

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

var (
	slidePart = regexp.MustCompile(`^ppt/slides/slide\d+\.xml$`)
	shapeID   = regexp.MustCompile(`<p:cNvPr[^>]*\sid="(\d+)"`)
)

// Pptx overlays a text box carrying the notice on every slide.
func Pptx(data []byte, text string) ([]byte, error) {
	escaped := xmlEscape(text)
	slides := 0

	out, err := rewriteZip(data, func(name string, content []byte) ([]byte, bool) {
		if !slidePart.MatchString(name) {
			return nil, false
		}
		idx := bytes.LastIndex(content, []byte("</p:spTree>"))
		if idx < 0 {
			return nil, false
		}
		slides++
		box := []byte(textBox(nextShapeID(content), escaped))
		updated := make([]byte, 0, len(content)+len(box))
		updated = append(updated, content[:idx]...)
		updated = append(updated, box...)
		updated = append(updated, content[idx:]...)
		return updated, true
	})
	if err != nil {
		return nil, err
	}
	if slides == 0 {
		return nil, fmt.Errorf("presentation has no slides")
	}
	return out, nil
}

func nextShapeID(slide []byte) int {
	max := 1
	for _, m := range shapeID.FindAllSubmatch(slide, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// One inch from the top-left corner, 18pt dark grey.
func textBox(id int, escaped string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Share2Teach Watermark"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="914400" y="914400"/><a:ext cx="7315200" cy="400110"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`+
		`<p:txBody><a:bodyPr wrap="square"><a:spAutoFit/></a:bodyPr><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" sz="1800" dirty="0"><a:solidFill><a:srgbClr val="363636"/></a:solidFill></a:rPr>`+
		`<a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, id, escaped)
}

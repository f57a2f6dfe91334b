package watermark

import (
	"bytes"
	"regexp"
)

// Placeholder is the template marker replaced by the license text in Word documents.
const Placeholder = "{watermark}"

var docxParts = regexp.MustCompile(`^word/(document|header\d*|footer\d*)\.xml$`)

// Docx fills every {watermark} placeholder in the body, headers and footers. Documents without a
// placeholder get the notice appended as a final paragraph of the body.
func Docx(data []byte, text string) ([]byte, error) {
	escaped := []byte(xmlEscape(text))
	replaced := false

	out, err := rewriteZip(data, func(name string, content []byte) ([]byte, bool) {
		if !docxParts.MatchString(name) || !bytes.Contains(content, []byte(Placeholder)) {
			return nil, false
		}
		replaced = true
		return bytes.ReplaceAll(content, []byte(Placeholder), escaped), true
	})
	if err != nil || replaced {
		return out, err
	}

	return rewriteZip(data, func(name string, content []byte) ([]byte, bool) {
		if name != "word/document.xml" {
			return nil, false
		}
		return appendParagraph(content, escaped)
	})
}

func appendParagraph(doc, escaped []byte) ([]byte, bool) {
	para := []byte(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:color w:val="808080"/><w:sz w:val="24"/></w:rPr><w:t xml:space="preserve">` +
		string(escaped) + `</w:t></w:r></w:p>`)

	// Word requires sectPr to stay the last child of the body.
	idx := bytes.LastIndex(doc, []byte("<w:sectPr"))
	if end := bytes.LastIndex(doc, []byte("</w:body>")); idx < 0 || idx > end {
		idx = end
	}
	if idx < 0 {
		return nil, false
	}

	out := make([]byte, 0, len(doc)+len(para))
	out = append(out, doc[:idx]...)
	out = append(out, para...)
	out = append(out, doc[idx:]...)
	return out, true
}

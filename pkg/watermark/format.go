package watermark

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDoc  = "application/msword"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXls  = "application/vnd.ms-excel"
	MIMEXlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPpt  = "application/vnd.ms-powerpoint"
	MIMEPptx = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMEText = "text/plain"
)

// ErrFormat is returned when a file's name, declared type or content is outside the allow-list.
var ErrFormat = errors.New("watermark: file type not allowed")

type format struct {
	canonical string
	declared  []string
	sniffed   []string
}

// Extension allow-list. A file passes when its declared type and its sniffed content both
// belong to the family its extension names.
var formats = map[string]format{
	".pdf":  {MIMEPDF, []string{MIMEPDF, "application/x-pdf"}, []string{MIMEPDF}},
	".doc":  {MIMEDoc, []string{MIMEDoc}, []string{MIMEDoc, "application/x-ole-storage"}},
	".docx": {MIMEDocx, []string{MIMEDocx}, []string{MIMEDocx, "application/zip"}},
	".xls":  {MIMEXls, []string{MIMEXls}, []string{MIMEXls, "application/x-ole-storage"}},
	".xlsx": {MIMEXlsx, []string{MIMEXlsx}, []string{MIMEXlsx, "application/zip"}},
	".ppt":  {MIMEPpt, []string{MIMEPpt}, []string{MIMEPpt, "application/x-ole-storage"}},
	".pptx": {MIMEPptx, []string{MIMEPptx}, []string{MIMEPptx, "application/zip"}},
	".txt":  {MIMEText, []string{MIMEText}, []string{MIMEText}},
}

// Resolve validates filename, the client-declared MIME type and the leading bytes of the
// content, returning the canonical MIME type used for watermark dispatch.
func Resolve(filename, declared string, content []byte) (string, error) {
	f, ok := formats[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", ErrFormat
	}
	if !matchDeclared(f.declared, declared) {
		return "", ErrFormat
	}
	if !matchSniffed(f.sniffed, mimetype.Detect(content)) {
		return "", ErrFormat
	}
	return f.canonical, nil
}

func matchDeclared(allowed []string, declared string) bool {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	for _, a := range allowed {
		if a == declared {
			return true
		}
	}
	return false
}

func matchSniffed(allowed []string, detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slideName = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// docxParagraphs returns the text of every non-empty paragraph in word/document.xml.
func docxParagraphs(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return paragraphsFromEntry(f, "p", "t")
		}
	}
	return nil, fmt.Errorf("word/document.xml missing")
}

// pptxSlides returns the paragraphs of each slide in presentation order.
func pptxSlides(data []byte) ([][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open presentation: %w", err)
	}

	type slide struct {
		n int
		f *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		if m := slideName.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slide{n: n, f: f})
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].n < slides[j].n })

	out := make([][]string, 0, len(slides))
	for _, s := range slides {
		paras, err := paragraphsFromEntry(s.f, "p", "t")
		if err != nil {
			return nil, err
		}
		out = append(out, paras)
	}
	return out, nil
}

// paragraphsFromEntry collects character data of text elements, split on paragraph elements.
// Both WordprocessingML (w:p/w:t) and DrawingML (a:p/a:t) use the same local names.
func paragraphsFromEntry(f *zip.File, para, text string) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	defer rc.Close() //nolint:errcheck

	dec := xml.NewDecoder(io.LimitReader(rc, maxExpandedSize))
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case text:
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case text:
				inText = false
			case para:
				if s := strings.TrimSpace(current.String()); s != "" {
					paragraphs = append(paragraphs, s)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}

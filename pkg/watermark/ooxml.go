package watermark

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// MaxExpandedSize bounds the total uncompressed size of an OOXML package.
const MaxExpandedSize = 64 << 20

// ErrTooLarge is returned when a package inflates beyond MaxExpandedSize.
var ErrTooLarge = errors.New("watermark: package expands beyond size limit")

// rewriteZip copies an OOXML package, passing each entry through edit. Entries edit leaves
// untouched are copied without recompression.
func rewriteZip(data []byte, edit func(name string, content []byte) ([]byte, bool)) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}

	var declared uint64
	for _, f := range zr.File {
		declared += f.UncompressedSize64
		if declared > MaxExpandedSize {
			return nil, ErrTooLarge
		}
	}

	out := &bytes.Buffer{}
	zw := zip.NewWriter(out)
	budget := int64(MaxExpandedSize)
	for _, f := range zr.File {
		content, err := readEntry(f, budget)
		if err != nil {
			return nil, err
		}
		budget -= int64(len(content))
		updated, changed := edit(f.Name, content)
		if !changed {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified})
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
		if _, err := w.Write(updated); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return out.Bytes(), nil
}

// readEntry inflates f, failing with ErrTooLarge once more than limit bytes come out. Header
// sizes are not trusted; the bound applies to the inflated stream.
func readEntry(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	defer rc.Close() //nolint:errcheck
	content, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if int64(len(content)) > limit {
		return nil, fmt.Errorf("read %s: %w", f.Name, ErrTooLarge)
	}
	return content, nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

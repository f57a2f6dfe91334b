package watermark

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildZip(t *testing.T, entries map[string]string, order ...string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(entries[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readZipEntry(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			content, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(content)
		}
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

const contentTypes = `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`

func docxFixture(t *testing.T, body string) []byte {
	return buildZip(t, map[string]string{
		"[Content_Types].xml": contentTypes,
		"word/document.xml":   `<w:document><w:body>` + body + `<w:sectPr/></w:body></w:document>`,
		"word/footer1.xml":    `<w:ftr><w:p><w:r><w:t>{watermark}</w:t></w:r></w:p></w:ftr>`,
	}, "[Content_Types].xml", "word/document.xml", "word/footer1.xml")
}

func TestTextAppendsTrailer(t *testing.T) {
	out, err := Text([]byte("lesson"), License)
	require.NoError(t, err)
	assert.Equal(t, "lesson\n\nShare2Teach License - CC BY-NC-ND 4.0\n", string(out))
}

func TestDocxReplacesPlaceholders(t *testing.T) {
	in := docxFixture(t, `<w:p><w:r><w:t>{watermark}</w:t></w:r></w:p>`)

	out, err := Docx(in, License)
	require.NoError(t, err)

	doc := readZipEntry(t, out, "word/document.xml")
	assert.Contains(t, doc, License)
	assert.NotContains(t, doc, Placeholder)
	assert.Contains(t, readZipEntry(t, out, "word/footer1.xml"), License)
	assert.Equal(t, contentTypes, readZipEntry(t, out, "[Content_Types].xml"))
}

func TestDocxAppendsParagraphWithoutPlaceholder(t *testing.T) {
	in := buildZip(t, map[string]string{
		"word/document.xml": `<w:document><w:body><w:p><w:r><w:t>Fractions</w:t></w:r></w:p><w:sectPr/></w:body></w:document>`,
	}, "word/document.xml")

	out, err := Docx(in, "A & B")
	require.NoError(t, err)

	doc := readZipEntry(t, out, "word/document.xml")
	assert.Contains(t, doc, "A &amp; B")
	assert.Less(t, strings.Index(doc, "A &amp; B"), strings.Index(doc, "<w:sectPr"))
}

func TestDocxRejectsHighlyCompressibleEntry(t *testing.T) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write(make([]byte, MaxExpandedSize+1))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.Less(t, buf.Len(), 1<<20)

	_, err = Docx(buf.Bytes(), License)
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = Pptx(buf.Bytes(), License)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestPptxOverlaysEverySlide(t *testing.T) {
	slide := `<p:sld><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/></p:nvGrpSpPr><p:sp><p:nvSpPr><p:cNvPr id="4" name="Title"/></p:nvSpPr></p:sp></p:spTree></p:cSld></p:sld>`
	in := buildZip(t, map[string]string{
		"[Content_Types].xml":   contentTypes,
		"ppt/slides/slide1.xml": slide,
		"ppt/slides/slide2.xml": slide,
	}, "[Content_Types].xml", "ppt/slides/slide1.xml", "ppt/slides/slide2.xml")

	out, err := Pptx(in, License)
	require.NoError(t, err)

	for _, name := range []string{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml"} {
		s := readZipEntry(t, out, name)
		assert.Contains(t, s, License)
		assert.Contains(t, s, `id="5" name="Share2Teach Watermark"`)
		assert.True(t, strings.HasSuffix(s, "</p:spTree></p:cSld></p:sld>"))
	}
}

func TestPptxWithoutSlidesFails(t *testing.T) {
	in := buildZip(t, map[string]string{"[Content_Types].xml": contentTypes}, "[Content_Types].xml")
	_, err := Pptx(in, License)
	assert.Error(t, err)
}

func TestXlsxSetsFooter(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Marks"))
	_, err := f.NewSheet("Term 2")
	require.NoError(t, err)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	out, err := Xlsx(buf.Bytes(), License)
	require.NoError(t, err)

	assert.Contains(t, readZipEntry(t, out, "xl/worksheets/sheet1.xml"), "&amp;C"+License)
	assert.Contains(t, readZipEntry(t, out, "xl/worksheets/sheet2.xml"), "&amp;C"+License)
}

func TestPDFStampsDocument(t *testing.T) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Arial", "", 12)
	doc.Cell(40, 10, "Photosynthesis")
	in := &bytes.Buffer{}
	require.NoError(t, doc.Output(in))

	out, err := PDF(in.Bytes(), License)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.NotEqual(t, in.Bytes(), out)
}

func TestRegistryRejectsUnsupported(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.Supports(MIMEPDF))
	assert.False(t, r.Supports(MIMEDoc))

	_, err := r.Apply(MIMEPpt, []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupported)

	out, err := r.Apply(MIMEText, []byte("x"))
	require.NoError(t, err)
	assert.Contains(t, string(out), License)
}

func TestResolve(t *testing.T) {
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")

	mime, err := Resolve("Algebra.PDF", "application/pdf", pdf)
	require.NoError(t, err)
	assert.Equal(t, MIMEPDF, mime)

	mime, err = Resolve("notes.txt", "text/plain; charset=utf-8", []byte("plain notes"))
	require.NoError(t, err)
	assert.Equal(t, MIMEText, mime)

	mime, err = Resolve("plan.docx", MIMEDocx, docxFixture(t, ""))
	require.NoError(t, err)
	assert.Equal(t, MIMEDocx, mime)

	cases := []struct {
		name, declared string
		content        []byte
	}{
		{"script.exe", "application/octet-stream", []byte("MZ")},
		{"notes.txt", "application/pdf", []byte("plain")},
		{"fake.pdf", "application/pdf", []byte("just text")},
		{"archive.zip", "application/zip", docxFixture(t, "")},
	}
	for _, tc := range cases {
		_, err := Resolve(tc.name, tc.declared, tc.content)
		assert.ErrorIs(t, err, ErrFormat, tc.name)
	}
}

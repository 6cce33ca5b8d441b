package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPackage zips the given parts into a .docx byte slice.
func buildPackage(t *testing.T, parts map[string]string, order ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(parts[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("part %s not found", name)
	return ""
}

const quoteDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Order Document</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Payment </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>Terms</w:t></w:r><w:r><w:tab/><w:t>Net 30</w:t></w:r></w:p>
<w:tbl>
<w:tblPr><w:tblStyle w:val="TableGrid"/></w:tblPr>
<w:tblGrid><w:gridCol/><w:gridCol/><w:gridCol/></w:tblGrid>
<w:tr><w:tc><w:p><w:r><w:t>Item</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Description</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Price</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:tcPr><w:shd w:fill="EEEEEE"/></w:tcPr><w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:rPr><w:i/></w:rPr><w:t>Setup</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>One-time</w:t></w:r></w:p><w:p><w:r><w:t>onboarding</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>$500.00</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>
<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr>
</w:body>
</w:document>`

const stylesXML = `<?xml version="1.0"?><w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`

func quotePackage(t *testing.T) []byte {
	return buildPackage(t, map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"_rels/.rels":         packageRelsXML,
		"word/document.xml":   quoteDocumentXML,
		"word/styles.xml":     stylesXML,
	}, "[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/styles.xml")
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open([]byte("not a zip"))
	assert.Error(t, err)

	noMain := buildPackage(t, map[string]string{"a.xml": "<a/>"}, "a.xml")
	_, err = Open(noMain)
	assert.ErrorContains(t, err, "missing word/document.xml")

	badXML := buildPackage(t, map[string]string{"word/document.xml": "<w:document"}, "word/document.xml")
	_, err = Open(badXML)
	assert.Error(t, err)

	noBody := buildPackage(t, map[string]string{
		"word/document.xml": `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	}, "word/document.xml")
	_, err = Open(noBody)
	assert.ErrorContains(t, err, "w:body")
}

func TestParagraphs(t *testing.T) {
	doc, err := Open(quotePackage(t))
	require.NoError(t, err)

	paragraphs := doc.Paragraphs()
	require.Len(t, paragraphs, 2, "table paragraphs must not be included")
	assert.Equal(t, "Order Document", paragraphs[0].Text())
	assert.Equal(t, "Title", paragraphs[0].Style())
	assert.Equal(t, "Payment Terms\tNet 30", paragraphs[1].Text())
	assert.Equal(t, "", paragraphs[1].Style())
}

func TestContainsParagraph(t *testing.T) {
	doc, err := Open(quotePackage(t))
	require.NoError(t, err)

	assert.True(t, doc.ContainsParagraph("payment terms"))
	assert.True(t, doc.ContainsParagraph("ORDER"))
	assert.False(t, doc.ContainsParagraph("Setup"), "table text is not a body paragraph")
	assert.False(t, doc.ContainsParagraph("Confidentiality"))
}

func TestAddHeadingAndParagraph(t *testing.T) {
	doc, err := Open(quotePackage(t))
	require.NoError(t, err)

	_, err = doc.AddHeading("Confidentiality", 2)
	require.NoError(t, err)
	doc.AddParagraph("Each party shall keep\nthe other's information\tconfidential. ")

	out, err := doc.Bytes()
	require.NoError(t, err)

	reopened, err := Open(out)
	require.NoError(t, err)
	paragraphs := reopened.Paragraphs()
	require.Len(t, paragraphs, 4)
	assert.Equal(t, "Confidentiality", paragraphs[2].Text())
	assert.Equal(t, "Heading2", paragraphs[2].Style())
	assert.Equal(t, "Each party shall keep\nthe other's information\tconfidential. ", paragraphs[3].Text())

	xml := readPart(t, out, "word/document.xml")
	assert.Less(t, strings.Index(xml, "Confidentiality"), strings.Index(xml, "<w:sectPr>"),
		"new blocks must precede the section properties")
	assert.Contains(t, xml, `xml:space="preserve"`)
}

func TestAddHeading_Levels(t *testing.T) {
	doc, err := Blank()
	require.NoError(t, err)

	p, err := doc.AddHeading("Agreement", 0)
	require.NoError(t, err)
	assert.Equal(t, "Title", p.Style())

	_, err = doc.AddHeading("Too deep", 10)
	assert.Error(t, err)
	_, err = doc.AddHeading("Negative", -1)
	assert.Error(t, err)
}

func TestBytes_PreservesOtherParts(t *testing.T) {
	doc, err := Open(quotePackage(t))
	require.NoError(t, err)
	doc.AddParagraph("extra")

	out, err := doc.Bytes()
	require.NoError(t, err)

	assert.Equal(t, stylesXML, readPart(t, out, "word/styles.xml"))
	assert.Equal(t, contentTypesXML, readPart(t, out, "[Content_Types].xml"))
}

func TestTables(t *testing.T) {
	doc, err := Open(quotePackage(t))
	require.NoError(t, err)

	tbl, err := doc.FirstTable()
	require.NoError(t, err)

	rows := tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Item", "Description", "Price"}, rows[0].Cells())
	assert.Equal(t, []string{"Setup", "One-time\nonboarding", "$500.00"}, rows[1].Cells())
}

func TestFirstTable_NoTables(t *testing.T) {
	doc, err := Blank()
	require.NoError(t, err)

	_, err = doc.FirstTable()
	assert.ErrorIs(t, err, ErrNoTables)
}

func TestAddRow(t *testing.T) {
	doc, err := Open(quotePackage(t))
	require.NoError(t, err)
	tbl, err := doc.FirstTable()
	require.NoError(t, err)

	_, err = tbl.AddRow("Support", "Monthly retainer", "$1,200.00")
	require.NoError(t, err)

	out, err := doc.Bytes()
	require.NoError(t, err)
	reopened, err := Open(out)
	require.NoError(t, err)
	tbl, err = reopened.FirstTable()
	require.NoError(t, err)

	rows := tbl.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Support", "Monthly retainer", "$1,200.00"}, rows[2].Cells())
	assert.Equal(t, []string{"Setup", "One-time\nonboarding", "$500.00"}, rows[1].Cells(), "template row untouched")

	xml := readPart(t, out, "word/document.xml")
	assert.Equal(t, 2, strings.Count(xml, `w:fill="EEEEEE"`), "cell properties copied from template")
	assert.Equal(t, 2, strings.Count(xml, "<w:i/>"), "run properties copied from template")
}

func TestAddRow_PartialValuesAndErrors(t *testing.T) {
	doc, err := Open(quotePackage(t))
	require.NoError(t, err)
	tbl, err := doc.FirstTable()
	require.NoError(t, err)

	row, err := tbl.AddRow("Only name")
	require.NoError(t, err)
	assert.Equal(t, []string{"Only name", "", ""}, row.Cells())

	_, err = tbl.AddRow("a", "b", "c", "d")
	assert.Error(t, err)

	empty, err := Blank()
	require.NoError(t, err)
	emptyTbl := &Table{el: empty.body.CreateElement("w:tbl")}
	_, err = emptyTbl.AddRow("x")
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestAddTable(t *testing.T) {
	doc, err := Blank()
	require.NoError(t, err)

	_, err = doc.AddTable([][]string{{"Item", "Description", "Price"}, {"Setup", "Once", "$1"}})
	require.NoError(t, err)

	out, err := doc.Bytes()
	require.NoError(t, err)
	reopened, err := Open(out)
	require.NoError(t, err)

	tbl, err := reopened.FirstTable()
	require.NoError(t, err)
	require.Len(t, tbl.Rows(), 2)
	assert.Equal(t, []string{"Setup", "Once", "$1"}, tbl.Rows()[1].Cells())

	_, err = doc.AddTable(nil)
	assert.Error(t, err)
	_, err = doc.AddTable([][]string{{"a", "b"}, {"c"}})
	assert.Error(t, err)
}

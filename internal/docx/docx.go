// Package docx edits the main story of WordprocessingML (.docx) documents.
//
// Only word/document.xml is parsed; every other part of the package is
// copied through byte for byte, so styles, numbering, headers and media
// survive an edit untouched.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

const documentPart = "word/document.xml"

var (
	// ErrNoTables is returned when a table operation targets a document
	// without tables.
	ErrNoTables = errors.New("no tables found in document")
	// ErrEmptyTable is returned when a row is added to a table with no row
	// to use as a template.
	ErrEmptyTable = errors.New("table has no rows")
)

// Document is an opened .docx package.
type Document struct {
	files []*zip.File
	xml   *etree.Document
	body  *etree.Element
}

// Open parses a .docx package held in memory.
func Open(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a docx package: %w", err)
	}

	var main *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			main = f
			break
		}
	}
	if main == nil {
		return nil, fmt.Errorf("not a docx package: missing %s", documentPart)
	}

	rc, err := main.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", documentPart, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", documentPart, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", documentPart, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "document" {
		return nil, fmt.Errorf("failed to parse %s: missing w:document", documentPart)
	}
	body := root.SelectElement("w:body")
	if body == nil {
		return nil, fmt.Errorf("failed to parse %s: missing w:body", documentPart)
	}

	return &Document{files: zr.File, xml: doc, body: body}, nil
}

// Bytes serialises the document back into a .docx package.
func (d *Document) Bytes() ([]byte, error) {
	main, err := d.xml.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialise %s: %w", documentPart, err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range d.files {
		if f.Name != documentPart {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("failed to copy part %s: %w", f.Name, err)
			}
			continue
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", f.Name, err)
		}
		if _, err := w.Write(main); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalise package: %w", err)
	}
	return buf.Bytes(), nil
}

// Paragraph is a body-level paragraph.
type Paragraph struct {
	el *etree.Element
}

// Text returns the visible text of the paragraph.
func (p Paragraph) Text() string {
	return paragraphText(p.el)
}

// Style returns the paragraph style id, or "" for the default style.
func (p Paragraph) Style() string {
	if ps := p.el.FindElement("./w:pPr/w:pStyle"); ps != nil {
		return ps.SelectAttrValue("w:val", "")
	}
	return ""
}

// Paragraphs returns the paragraphs directly in the document body. Text
// inside tables is not included.
func (d *Document) Paragraphs() []Paragraph {
	var out []Paragraph
	for _, el := range d.body.SelectElements("w:p") {
		out = append(out, Paragraph{el: el})
	}
	return out
}

// ContainsParagraph reports whether any body paragraph contains substr,
// ignoring case.
func (d *Document) ContainsParagraph(substr string) bool {
	needle := strings.ToLower(substr)
	for _, p := range d.Paragraphs() {
		if strings.Contains(strings.ToLower(p.Text()), needle) {
			return true
		}
	}
	return false
}

// AddParagraph appends a paragraph holding text. Newlines become line breaks
// and tabs become tab characters.
func (d *Document) AddParagraph(text string) Paragraph {
	return d.addParagraph(text, "")
}

// AddHeading appends a heading paragraph. Level 0 uses the Title style;
// levels 1-9 use Heading1-Heading9.
func (d *Document) AddHeading(text string, level int) (Paragraph, error) {
	if level < 0 || level > 9 {
		return Paragraph{}, fmt.Errorf("heading level must be between 0 and 9, got %d", level)
	}
	style := "Title"
	if level > 0 {
		style = fmt.Sprintf("Heading%d", level)
	}
	return d.addParagraph(text, style), nil
}

func (d *Document) addParagraph(text, style string) Paragraph {
	p := etree.NewElement("w:p")
	if style != "" {
		p.CreateElement("w:pPr").CreateElement("w:pStyle").CreateAttr("w:val", style)
	}
	if text != "" {
		writeRunText(p.CreateElement("w:r"), text)
	}
	d.appendToBody(p)
	return Paragraph{el: p}
}

// appendToBody adds el as the last block of the body, ahead of the final
// section properties which must stay last.
func (d *Document) appendToBody(el *etree.Element) {
	children := d.body.ChildElements()
	if n := len(children); n > 0 && children[n-1].Tag == "sectPr" {
		d.body.InsertChildAt(children[n-1].Index(), el)
		return
	}
	d.body.AddChild(el)
}

// paragraphText concatenates the text of every run in el, in document order.
func paragraphText(el *etree.Element) string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			switch c.Tag {
			case "t":
				sb.WriteString(c.Text())
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			case "pPr", "rPr", "delText":
				// formatting and deleted text are not visible
			default:
				walk(c)
			}
		}
	}
	walk(el)
	return sb.String()
}

// writeRunText fills run r with text, mapping "\n" to w:br and "\t" to w:tab.
func writeRunText(r *etree.Element, text string) {
	var chunk strings.Builder
	flush := func() {
		if chunk.Len() == 0 {
			return
		}
		t := r.CreateElement("w:t")
		s := chunk.String()
		if strings.TrimSpace(s) != s {
			t.CreateAttr("xml:space", "preserve")
		}
		t.SetText(s)
		chunk.Reset()
	}

	for _, ch := range text {
		switch ch {
		case '\n':
			flush()
			r.CreateElement("w:br")
		case '\t':
			flush()
			r.CreateElement("w:tab")
		case '\r':
		default:
			chunk.WriteRune(ch)
		}
	}
	flush()
}

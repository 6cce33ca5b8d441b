package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Table is a body-level table.
type Table struct {
	el *etree.Element
}

// Row is one table row.
type Row struct {
	el *etree.Element
}

// Tables returns the tables directly in the document body, in order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, el := range d.body.SelectElements("w:tbl") {
		out = append(out, &Table{el: el})
	}
	return out
}

// FirstTable returns the first body table or ErrNoTables.
func (d *Document) FirstTable() (*Table, error) {
	tables := d.Tables()
	if len(tables) == 0 {
		return nil, ErrNoTables
	}
	return tables[0], nil
}

// Rows returns the rows of the table.
func (t *Table) Rows() []*Row {
	var out []*Row
	for _, el := range t.el.SelectElements("w:tr") {
		out = append(out, &Row{el: el})
	}
	return out
}

// Cells returns the text of each cell in the row. A cell's paragraphs are
// joined with "\n".
func (r *Row) Cells() []string {
	var out []string
	for _, tc := range r.el.SelectElements("w:tc") {
		var parts []string
		for _, p := range tc.SelectElements("w:p") {
			parts = append(parts, paragraphText(p))
		}
		out = append(out, strings.Join(parts, "\n"))
	}
	return out
}

// AddRow appends a row modelled on the table's last row. Cell, paragraph and
// run properties of the template are kept; the text of cell i becomes
// values[i], and cells past the end of values are left empty.
func (t *Table) AddRow(values ...string) (*Row, error) {
	rows := t.el.SelectElements("w:tr")
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	template := rows[len(rows)-1]

	cells := template.SelectElements("w:tc")
	if len(values) > len(cells) {
		return nil, fmt.Errorf("row has %d cells, cannot hold %d values", len(cells), len(values))
	}

	row := template.Copy()
	for i, tc := range row.SelectElements("w:tc") {
		text := ""
		if i < len(values) {
			text = values[i]
		}
		resetCell(tc, text)
	}

	t.el.InsertChildAt(template.Index()+1, row)
	return &Row{el: row}, nil
}

// AddTable appends a table with one row per entry of rows. Every row must
// have the same number of cells.
func (d *Document) AddTable(rows [][]string) (*Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("table needs at least one row and one column")
	}
	cols := len(rows[0])

	tbl := etree.NewElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	tblPr.CreateElement("w:tblStyle").CreateAttr("w:val", "TableGrid")
	w := tblPr.CreateElement("w:tblW")
	w.CreateAttr("w:w", "0")
	w.CreateAttr("w:type", "auto")

	grid := tbl.CreateElement("w:tblGrid")
	for i := 0; i < cols; i++ {
		grid.CreateElement("w:gridCol")
	}

	for _, values := range rows {
		if len(values) != cols {
			return nil, fmt.Errorf("all rows must have %d cells", cols)
		}
		tr := tbl.CreateElement("w:tr")
		for _, v := range values {
			tc := tr.CreateElement("w:tc")
			tcW := tc.CreateElement("w:tcPr").CreateElement("w:tcW")
			tcW.CreateAttr("w:w", "0")
			tcW.CreateAttr("w:type", "auto")
			p := tc.CreateElement("w:p")
			if v != "" {
				writeRunText(p.CreateElement("w:r"), v)
			}
		}
	}

	d.appendToBody(tbl)
	return &Table{el: tbl}, nil
}

// resetCell replaces the content of tc with one paragraph holding text,
// reusing the formatting of the first paragraph and run it had.
func resetCell(tc *etree.Element, text string) {
	var pPr, rPr *etree.Element
	if p := tc.SelectElement("w:p"); p != nil {
		if el := p.SelectElement("w:pPr"); el != nil {
			pPr = el.Copy()
		}
		if el := p.FindElement("./w:r/w:rPr"); el != nil {
			rPr = el.Copy()
		}
	}

	for _, c := range tc.ChildElements() {
		if c.Tag != "tcPr" {
			tc.RemoveChild(c)
		}
	}

	p := tc.CreateElement("w:p")
	if pPr != nil {
		// a copied paragraph mark may carry run properties; keep them
		p.AddChild(pPr)
	}
	if text == "" {
		return
	}
	r := p.CreateElement("w:r")
	if rPr != nil {
		r.AddChild(rPr)
	}
	writeRunText(r, text)
}

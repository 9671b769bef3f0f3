package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dgallion1/reportgen/internal/report"
	"github.com/dgallion1/reportgen/internal/style"
)

// gridBorder is the edge drawn around every data table cell.
var gridBorder = Border{Style: "single", Size: 4, Color: "000000"}

// RenderTable appends spec as a grid: one header row holding the column
// names, then one row per value. A table without columns, or with columns
// of unequal length, fails with *TableShapeError before anything is
// written.
func RenderTable(s Surface, spec report.TableSpec, headerStyle, cellStyle style.Record) error {
	rows, err := tableRows(spec)
	if err != nil {
		return err
	}
	headerAlign, err := style.ParseAlignment(string(headerStyle.Alignment))
	if err != nil {
		return err
	}
	cellAlign, err := style.ParseAlignment(string(cellStyle.Alignment))
	if err != nil {
		return err
	}
	cols := len(spec.Columns)

	t := s.AddTable(rows+1, cols)
	t.SetAlignment(style.AlignCenter)
	for i, w := range spec.Widths {
		if i < cols {
			t.SetColumnWidth(i, w)
		}
	}
	for i, h := range spec.Heights {
		if i <= rows {
			t.SetRowHeight(i, h)
		}
	}

	b := gridBorder
	borders := CellBorders{Top: &b, Left: &b, Bottom: &b, Right: &b}
	for c, col := range spec.Columns {
		cell := t.Cell(0, c)
		cell.SetText(col.Name)
		styleCell(cell, headerAlign, headerStyle)
		cell.SetBorders(borders)
		for r := 1; r <= rows; r++ {
			cell := t.Cell(r, c)
			cell.SetText(CellText(col.Values[r-1]))
			styleCell(cell, cellAlign, cellStyle)
			cell.SetBorders(borders)
		}
	}
	return nil
}

// tableRows returns the shared length of every column.
func tableRows(spec report.TableSpec) (int, error) {
	if len(spec.Columns) == 0 {
		return 0, &TableShapeError{Table: spec.Name}
	}
	n := len(spec.Columns[0].Values)
	consistent := true
	for _, col := range spec.Columns[1:] {
		if len(col.Values) != n {
			consistent = false
			break
		}
	}
	if consistent {
		return n, nil
	}
	lengths := make(map[string]int, len(spec.Columns))
	for _, col := range spec.Columns {
		lengths[col.Name] = len(col.Values)
	}
	return 0, &TableShapeError{Table: spec.Name, Lengths: lengths}
}

// styleCell aligns every paragraph of a cell and styles its first run,
// creating the run if the paragraph has none. Color is left untouched.
func styleCell(c Cell, align style.Alignment, r style.Record) {
	rs := RunStyle{Font: r.Font, Size: r.Size, Bold: r.Bold}
	for _, p := range c.Paragraphs() {
		p.SetAlignment(align)
		runs := p.Runs()
		var run Run
		if len(runs) > 0 {
			run = runs[0]
		} else {
			run = p.AddRun("")
		}
		run.SetStyle(rs)
	}
}

// CellText converts a table value to its display text.
func CellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return CellText(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

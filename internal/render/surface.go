package render

import "github.com/dgallion1/reportgen/internal/style"

// Surface is the append-only document buffer the engine writes into.
// Implementations own the vendor object model; the engine never sees it.
type Surface interface {
	AddParagraph() Paragraph
	AddTable(rows, cols int) Table
}

// Paragraph is a block of runs with paragraph-level formatting.
type Paragraph interface {
	AddRun(text string) Run
	Runs() []Run
	AddPicture(img Image, widthCm float64) error
	SetFormat(f ParagraphFormat)
	SetAlignment(a style.Alignment)
}

// Run is a span of text sharing one character style.
type Run interface {
	SetStyle(s RunStyle)
}

// Table is a fixed grid of cells.
type Table interface {
	SetAlignment(a style.Alignment)
	SetColumnWidth(col int, cm float64)
	SetRowHeight(row int, cm float64)
	Cell(row, col int) Cell
}

// Cell is one table cell.
type Cell interface {
	// SetText replaces the cell content with one paragraph holding one run.
	SetText(text string)
	Paragraphs() []Paragraph
	SetBorders(b CellBorders)
}

// RunStyle is the character formatting of a run. A nil Color leaves the
// surface default in place.
type RunStyle struct {
	Font  string
	Size  float64 // points
	Color *style.RGB
	Bold  bool
}

// ParagraphFormat is the paragraph-level formatting. Spacing and indent
// are in points.
type ParagraphFormat struct {
	Alignment       style.Alignment
	LineSpacing     float64 // multiple of single spacing
	SpaceBefore     float64
	SpaceAfter      float64
	FirstLineIndent float64
}

// Border is one cell edge. Size is in eighths of a point; Color is RRGGBB.
type Border struct {
	Style string
	Size  int
	Color string
}

// CellBorders sets the edges of a cell. Nil edges are left unchanged.
type CellBorders struct {
	Top, Left, Bottom, Right *Border
}

// Image is a decoded-enough image: raw bytes plus the sniffed format.
type Image struct {
	Data   []byte
	Format string
}

// runStyleOf returns the full character style of a record.
func runStyleOf(r style.Record) RunStyle {
	c := r.Color
	return RunStyle{Font: r.Font, Size: r.Size, Color: &c, Bold: r.Bold}
}

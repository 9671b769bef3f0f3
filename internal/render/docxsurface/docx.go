// Package docxsurface implements render.Surface on top of go-docx.
package docxsurface

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fumiama/go-docx"
	"github.com/fumiama/imgsz"

	"github.com/dgallion1/reportgen/internal/render"
	"github.com/dgallion1/reportgen/internal/style"
)

const (
	twipsPerPt  = 20
	twipsPerCm  = 1440 / 2.54
	emuPerCm    = 360000
	a4WidthTw   = 11906
	a4HeightTw  = 16838
	headerTw    = 851
	footerTw    = 992
	singleLine  = 240
	eastAsiaTag = "eastAsia"
)

var _ render.Surface = (*Document)(nil)

// Margins are page margins in cm.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// DefaultMargins returns the margins of the standard bulletin layout.
func DefaultMargins() Margins {
	return Margins{Top: 2.54, Bottom: 2.54, Left: 2.8, Right: 2.8}
}

// Options configures a Document.
type Options struct {
	Margins Margins
}

// Document is an in-memory .docx being built by the engine.
type Document struct {
	doc     *docx.Docx
	margins Margins

	last  *docx.Paragraph // most recent body paragraph
	carry int             // space after last, in twips, owed to the next body paragraph
}

// New returns an empty A4 document. Zero margins fall back to
// DefaultMargins.
func New(opts Options) *Document {
	m := opts.Margins
	if m == (Margins{}) {
		m = DefaultMargins()
	}
	return &Document{
		doc:     docx.New().WithDefaultTheme(),
		margins: m,
	}
}

// Docx exposes the underlying go-docx document.
func (d *Document) Docx() *docx.Docx { return d.doc }

func (d *Document) AddParagraph() render.Paragraph {
	p := d.doc.AddParagraph()
	extra := d.carry
	d.carry = 0
	d.last = p
	if extra > 0 {
		spacing(p).Before = extra
	}
	return &paragraph{doc: d, p: p, extraBefore: extra}
}

func (d *Document) AddTable(rows, cols int) render.Table {
	d.carry = 0
	d.last = nil
	t := d.doc.AddTable(rows, cols, 0, nil)
	// Cell borders are set per cell; table-level borders would box
	// every table, the divider included.
	t.TableProperties.TableBorders = nil
	t.TableGrid.GridCols = make([]*docx.WGridCol, cols)
	for i := range t.TableGrid.GridCols {
		t.TableGrid.GridCols[i] = &docx.WGridCol{}
	}
	for _, row := range t.TableRows {
		for _, c := range row.TableCells {
			c.AddParagraph()
		}
	}
	return &table{t: t}
}

// WriteTo serializes the document as a .docx archive. Page size and
// margins are emitted as the final section properties.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	items := d.doc.Document.Body.Items
	d.doc.Document.Body.Items = append(items[:len(items):len(items)], d.sectPr())
	defer func() { d.doc.Document.Body.Items = items }()

	cw := &countingWriter{w: w}
	if _, err := d.doc.WriteTo(cw); err != nil {
		return cw.n, fmt.Errorf("write docx: %w", err)
	}
	return cw.n, nil
}

// Bytes returns the serialized document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) sectPr() *docx.SectPr {
	return &docx.SectPr{
		PgSz: &docx.PgSz{W: a4WidthTw, H: a4HeightTw},
		PgMar: &docx.PgMar{
			Top:    cmTwips(d.margins.Top),
			Bottom: cmTwips(d.margins.Bottom),
			Left:   cmTwips(d.margins.Left),
			Right:  cmTwips(d.margins.Right),
			Header: headerTw,
			Footer: footerTw,
		},
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type paragraph struct {
	doc         *Document // nil for cell paragraphs
	p           *docx.Paragraph
	extraBefore int
}

func (p *paragraph) AddRun(text string) render.Run {
	return &run{r: p.p.AddText(text)}
}

func (p *paragraph) Runs() []render.Run {
	var out []render.Run
	for _, c := range p.p.Children {
		if r, ok := c.(*docx.Run); ok {
			out = append(out, &run{r: r})
		}
	}
	return out
}

var errBadImage = errors.New("image has no usable dimensions")

// AddPicture embeds img inline. A positive widthCm scales the picture to
// that width keeping its aspect ratio.
func (p *paragraph) AddPicture(img render.Image, widthCm float64) error {
	sz, _, err := imgsz.DecodeSize(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("decode image size: %w", err)
	}
	if sz.Width <= 0 || sz.Height <= 0 {
		return errBadImage
	}
	r, err := p.p.AddInlineDrawing(img.Data)
	if err != nil {
		return fmt.Errorf("embed image: %w", err)
	}
	if widthCm <= 0 {
		return nil
	}
	w := int64(math.Round(widthCm * emuPerCm))
	h := w * int64(sz.Height) / int64(sz.Width)
	for _, c := range r.Children {
		if d, ok := c.(*docx.Drawing); ok && d.Inline != nil {
			d.Inline.Size(w, h)
		}
	}
	return nil
}

func (p *paragraph) SetFormat(f render.ParagraphFormat) {
	p.SetAlignment(f.Alignment)
	sp := spacing(p.p)
	sp.Before = ptTwips(f.SpaceBefore) + p.extraBefore
	sp.Line, sp.LineRule = 0, ""
	if f.LineSpacing > 0 {
		sp.Line = int(math.Round(f.LineSpacing * singleLine))
		sp.LineRule = "auto"
	}
	props(p.p).Ind = nil
	if f.FirstLineIndent > 0 {
		props(p.p).Ind = &docx.Ind{FirstLine: ptTwips(f.FirstLineIndent)}
	}
	if p.doc != nil && p.doc.last == p.p {
		p.doc.carry = ptTwips(f.SpaceAfter)
	}
}

func (p *paragraph) SetAlignment(a style.Alignment) {
	p.p.Justification(justification(a))
}

type run struct {
	r *docx.Run
}

func (r *run) SetStyle(s render.RunStyle) {
	if r.r.RunProperties == nil {
		r.r.RunProperties = &docx.RunProperties{}
	}
	if s.Font != "" {
		r.r.Font(s.Font, s.Font, s.Font, eastAsiaTag)
	}
	if s.Size > 0 {
		hp := strconv.Itoa(int(math.Round(s.Size * 2)))
		r.r.Size(hp)
		r.r.SizeCs(hp)
	}
	if s.Color != nil {
		r.r.Color(s.Color.Hex())
	}
	if s.Bold {
		r.r.Bold()
	} else {
		r.r.RunProperties.Bold = nil
	}
}

type table struct {
	t *docx.Table
}

func (t *table) SetAlignment(a style.Alignment) {
	t.t.Justification(justification(a))
}

func (t *table) SetColumnWidth(col int, cm float64) {
	if col < 0 || col >= len(t.t.TableGrid.GridCols) {
		return
	}
	w := int64(cmTwips(cm))
	t.t.TableGrid.GridCols[col].W = w
	for _, row := range t.t.TableRows {
		if col < len(row.TableCells) {
			row.TableCells[col].TableCellProperties.TableCellWidth = &docx.WTableCellWidth{W: w, Type: "dxa"}
		}
	}
}

func (t *table) SetRowHeight(row int, cm float64) {
	if row < 0 || row >= len(t.t.TableRows) {
		return
	}
	t.t.TableRows[row].TableRowProperties.TableRowHeight = &docx.WTableRowHeight{Val: int64(cmTwips(cm))}
}

func (t *table) Cell(row, col int) render.Cell {
	return &cell{c: t.t.TableRows[row].TableCells[col]}
}

type cell struct {
	c *docx.WTableCell
}

func (c *cell) SetText(text string) {
	c.c.Paragraphs = nil
	c.c.AddParagraph().AddText(text)
}

func (c *cell) Paragraphs() []render.Paragraph {
	out := make([]render.Paragraph, len(c.c.Paragraphs))
	for i, p := range c.c.Paragraphs {
		out[i] = &paragraph{p: p}
	}
	return out
}

func (c *cell) SetBorders(b render.CellBorders) {
	tcPr := c.c.TableCellProperties
	if tcPr.TableBorders == nil {
		tcPr.TableBorders = &docx.WTableBorders{}
	}
	set := func(dst **docx.WTableBorder, src *render.Border) {
		if src != nil {
			*dst = &docx.WTableBorder{Val: src.Style, Size: src.Size, Color: src.Color}
		}
	}
	set(&tcPr.TableBorders.Top, b.Top)
	set(&tcPr.TableBorders.Left, b.Left)
	set(&tcPr.TableBorders.Bottom, b.Bottom)
	set(&tcPr.TableBorders.Right, b.Right)
}

func props(p *docx.Paragraph) *docx.ParagraphProperties {
	if p.Properties == nil {
		p.Properties = &docx.ParagraphProperties{}
	}
	return p.Properties
}

func spacing(p *docx.Paragraph) *docx.Spacing {
	pp := props(p)
	if pp.Spacing == nil {
		pp.Spacing = &docx.Spacing{}
	}
	return pp.Spacing
}

func justification(a style.Alignment) string {
	switch a {
	case style.AlignCenter:
		return "center"
	case style.AlignRight:
		return "right"
	default:
		return "left"
	}
}

func ptTwips(pt float64) int {
	return int(math.Round(pt * twipsPerPt))
}

func cmTwips(cm float64) int {
	return int(math.Round(cm * twipsPerCm))
}

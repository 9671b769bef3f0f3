package render

import (
	"errors"
	"strings"

	"github.com/dgallion1/reportgen/internal/style"
)

// fakeSurface records every block appended to it, in order.
type fakeSurface struct {
	blocks []any // *fakePara or *fakeTable
}

func (s *fakeSurface) AddParagraph() Paragraph {
	p := &fakePara{}
	s.blocks = append(s.blocks, p)
	return p
}

func (s *fakeSurface) AddTable(rows, cols int) Table {
	t := &fakeTable{
		rows:    rows,
		cols:    cols,
		widths:  map[int]float64{},
		heights: map[int]float64{},
		cells:   make([][]*fakeCell, rows),
	}
	for r := range t.cells {
		t.cells[r] = make([]*fakeCell, cols)
		for c := range t.cells[r] {
			t.cells[r][c] = &fakeCell{paras: []*fakePara{{}}}
		}
	}
	s.blocks = append(s.blocks, t)
	return t
}

func (s *fakeSurface) paragraphs() []*fakePara {
	var out []*fakePara
	for _, b := range s.blocks {
		if p, ok := b.(*fakePara); ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *fakeSurface) tables() []*fakeTable {
	var out []*fakeTable
	for _, b := range s.blocks {
		if t, ok := b.(*fakeTable); ok {
			out = append(out, t)
		}
	}
	return out
}

type fakePicture struct {
	img     Image
	widthCm float64
}

type fakePara struct {
	runs       []*fakeRun
	pictures   []fakePicture
	format     ParagraphFormat
	formatted  int
	align      style.Alignment
	pictureErr error
}

func (p *fakePara) AddRun(text string) Run {
	r := &fakeRun{text: text}
	p.runs = append(p.runs, r)
	return r
}

func (p *fakePara) Runs() []Run {
	out := make([]Run, len(p.runs))
	for i, r := range p.runs {
		out[i] = r
	}
	return out
}

func (p *fakePara) AddPicture(img Image, widthCm float64) error {
	if len(img.Data) == 0 {
		return errors.New("empty image")
	}
	p.pictures = append(p.pictures, fakePicture{img: img, widthCm: widthCm})
	return nil
}

func (p *fakePara) SetFormat(f ParagraphFormat) {
	p.format = f
	p.align = f.Alignment
	p.formatted++
}

func (p *fakePara) SetAlignment(a style.Alignment) { p.align = a }

func (p *fakePara) text() string {
	var b strings.Builder
	for _, r := range p.runs {
		b.WriteString(r.text)
	}
	return b.String()
}

type fakeRun struct {
	text   string
	style  RunStyle
	styled int
}

func (r *fakeRun) SetStyle(s RunStyle) {
	r.style = s
	r.styled++
}

type fakeTable struct {
	rows, cols int
	align      style.Alignment
	widths     map[int]float64
	heights    map[int]float64
	cells      [][]*fakeCell
}

func (t *fakeTable) SetAlignment(a style.Alignment)     { t.align = a }
func (t *fakeTable) SetColumnWidth(col int, cm float64) { t.widths[col] = cm }
func (t *fakeTable) SetRowHeight(row int, cm float64)   { t.heights[row] = cm }
func (t *fakeTable) Cell(row, col int) Cell             { return t.cells[row][col] }

func (t *fakeTable) rowText(r int) []string {
	out := make([]string, t.cols)
	for c := range out {
		out[c] = t.cells[r][c].text()
	}
	return out
}

type fakeCell struct {
	paras   []*fakePara
	borders CellBorders
}

// SetText drops empty text entirely so the paragraph has no run, which is
// how a freshly created cell looks on most surfaces.
func (c *fakeCell) SetText(text string) {
	p := &fakePara{}
	if text != "" {
		p.AddRun(text)
	}
	c.paras = []*fakePara{p}
}

func (c *fakeCell) Paragraphs() []Paragraph {
	out := make([]Paragraph, len(c.paras))
	for i, p := range c.paras {
		out[i] = p
	}
	return out
}

func (c *fakeCell) SetBorders(b CellBorders) { c.borders = b }

func (c *fakeCell) text() string {
	var parts []string
	for _, p := range c.paras {
		parts = append(parts, p.text())
	}
	return strings.Join(parts, "\n")
}

// mapLoader serves images from memory.
type mapLoader map[string]Image

func (m mapLoader) Load(url string) (Image, error) {
	img, ok := m[url]
	if !ok {
		return Image{}, errors.New("no such image")
	}
	return img, nil
}

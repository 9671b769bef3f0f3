package docxsurface

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/reportgen/internal/render"
	"github.com/dgallion1/reportgen/internal/report"
	"github.com/dgallion1/reportgen/internal/style"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func bodyParagraph(t *testing.T, d *Document, i int) *docx.Paragraph {
	t.Helper()
	items := d.Docx().Document.Body.Items
	require.Greater(t, len(items), i)
	p, ok := items[i].(*docx.Paragraph)
	require.True(t, ok, "item %d is %T", i, items[i])
	return p
}

func runsOf(p *docx.Paragraph) []*docx.Run {
	var out []*docx.Run
	for _, c := range p.Children {
		if r, ok := c.(*docx.Run); ok {
			out = append(out, r)
		}
	}
	return out
}

func TestParagraphRunsAndFormat(t *testing.T) {
	d := New(Options{})
	text := style.Default()
	text.Indent = 2
	text.Alignment = style.AlignRight
	emph := style.Default()
	emph.Bold = true
	emph.Color = style.RGB{0xFF, 0, 0}

	require.NoError(t, render.RenderParagraph(d, "a<strong>b</strong>c", text, emph))

	p := bodyParagraph(t, d, 0)
	runs := runsOf(p)
	require.Len(t, runs, 3)
	assert.Equal(t, "abc", p.String())

	assert.Nil(t, runs[0].RunProperties.Bold)
	assert.NotNil(t, runs[1].RunProperties.Bold)
	assert.Equal(t, "FF0000", runs[1].RunProperties.Color.Val)
	assert.Equal(t, "000000", runs[2].RunProperties.Color.Val)
	assert.Equal(t, "仿宋", runs[0].RunProperties.Fonts.EastAsia)
	assert.Equal(t, "仿宋", runs[0].RunProperties.Fonts.ASCII)
	assert.Equal(t, "28", runs[0].RunProperties.Size.Val)

	require.NotNil(t, p.Properties)
	assert.Equal(t, "right", p.Properties.Justification.Val)
	assert.Equal(t, 300, p.Properties.Spacing.Line)
	assert.Equal(t, "auto", p.Properties.Spacing.LineRule)
	require.NotNil(t, p.Properties.Ind)
	assert.Equal(t, 480, p.Properties.Ind.FirstLine)
}

func TestSpaceAfterCarriesToNextParagraph(t *testing.T) {
	d := New(Options{})
	first := style.Default()
	first.SpaceAfter = 6
	second := style.Default()
	second.SpaceBefore = 3

	require.NoError(t, render.RenderParagraph(d, "one", first, first))
	require.NoError(t, render.RenderParagraph(d, "two", second, second))
	require.NoError(t, render.RenderParagraph(d, "three", second, second))

	assert.Equal(t, 0, bodyParagraph(t, d, 0).Properties.Spacing.Before)
	assert.Equal(t, 120+60, bodyParagraph(t, d, 1).Properties.Spacing.Before)
	assert.Equal(t, 60, bodyParagraph(t, d, 2).Properties.Spacing.Before)
}

func TestSpaceAfterDroppedAtTable(t *testing.T) {
	d := New(Options{})
	first := style.Default()
	first.SpaceAfter = 6
	require.NoError(t, render.RenderParagraph(d, "one", first, first))
	d.AddTable(1, 1)
	render.EmptyParagraph(d)

	p := bodyParagraph(t, d, 2)
	if p.Properties != nil && p.Properties.Spacing != nil {
		assert.Zero(t, p.Properties.Spacing.Before)
	}
}

func TestTableLayout(t *testing.T) {
	d := New(Options{})
	spec := report.TableSpec{
		Name: "表1",
		Columns: []report.Column{
			{Name: "A", Values: []any{1.0, 2.0}},
			{Name: "B", Values: []any{3.0, 4.0}},
		},
		Widths:  []float64{2.54, 5.08},
		Heights: []float64{1.27},
	}
	header := style.Default()
	header.Bold = true
	require.NoError(t, render.RenderTable(d, spec, header, style.Default()))

	items := d.Docx().Document.Body.Items
	require.Len(t, items, 1)
	tbl, ok := items[0].(*docx.Table)
	require.True(t, ok)

	require.Len(t, tbl.TableRows, 3)
	require.Len(t, tbl.TableRows[0].TableCells, 2)
	assert.Equal(t, "center", tbl.TableProperties.Justification.Val)
	assert.Nil(t, tbl.TableProperties.TableBorders)

	texts := func(r int) []string {
		var out []string
		for _, c := range tbl.TableRows[r].TableCells {
			out = append(out, c.Paragraphs[0].String())
		}
		return out
	}
	assert.Equal(t, []string{"A", "B"}, texts(0))
	assert.Equal(t, []string{"1", "3"}, texts(1))
	assert.Equal(t, []string{"2", "4"}, texts(2))

	assert.Equal(t, int64(1440), tbl.TableGrid.GridCols[0].W)
	assert.Equal(t, int64(2880), tbl.TableGrid.GridCols[1].W)
	assert.Equal(t, int64(2880), tbl.TableRows[2].TableCells[1].TableCellProperties.TableCellWidth.W)
	assert.Equal(t, int64(720), tbl.TableRows[0].TableRowProperties.TableRowHeight.Val)
	assert.Nil(t, tbl.TableRows[1].TableRowProperties.TableRowHeight)

	hdr := runsOf(tbl.TableRows[0].TableCells[0].Paragraphs[0])
	require.Len(t, hdr, 1)
	assert.NotNil(t, hdr[0].RunProperties.Bold)

	borders := tbl.TableRows[1].TableCells[0].TableCellProperties.TableBorders
	require.NotNil(t, borders)
	assert.Equal(t, "single", borders.Top.Val)
	assert.Equal(t, 4, borders.Left.Size)
}

func TestDividerCellBorders(t *testing.T) {
	d := New(Options{})
	tb := d.AddTable(1, 1)
	tb.Cell(0, 0).SetBorders(render.CellBorders{
		Top:    &render.Border{Style: "single", Size: 20, Color: "2B569A"},
		Bottom: &render.Border{Style: "single", Size: 5, Color: "000000"},
	})

	tbl := d.Docx().Document.Body.Items[0].(*docx.Table)
	c := tbl.TableRows[0].TableCells[0]
	require.Len(t, c.Paragraphs, 1, "every cell carries a paragraph")
	b := c.TableCellProperties.TableBorders
	assert.Equal(t, 20, b.Top.Size)
	assert.Equal(t, "2B569A", b.Top.Color)
	assert.Equal(t, 5, b.Bottom.Size)
	assert.Nil(t, b.Left)
	assert.Nil(t, b.Right)
}

func TestAddPictureScalesToWidth(t *testing.T) {
	d := New(Options{})
	p := d.AddParagraph()
	require.NoError(t, p.AddPicture(render.Image{Data: pngBytes(t, 40, 20), Format: "png"}, 10))

	dp := bodyParagraph(t, d, 0)
	runs := runsOf(dp)
	require.Len(t, runs, 1)
	drawing, ok := runs[0].Children[0].(*docx.Drawing)
	require.True(t, ok)
	assert.Equal(t, int64(3600000), drawing.Inline.Extent.CX)
	assert.Equal(t, int64(1800000), drawing.Inline.Extent.CY)
}

func TestAddPictureRejectsGarbage(t *testing.T) {
	d := New(Options{})
	p := d.AddParagraph()
	err := p.AddPicture(render.Image{Data: []byte("not an image")}, 10)
	require.Error(t, err)
	assert.Empty(t, runsOf(bodyParagraph(t, d, 0)))
}

func TestWriteToAppendsSectionProperties(t *testing.T) {
	d := New(Options{})
	render.EmptyParagraph(d)

	data, err := d.Bytes()
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("PK")))
	assert.Len(t, d.Docx().Document.Body.Items, 1, "body restored after write")

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var doc string
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		doc = string(b)
	}
	require.NotEmpty(t, doc)
	assert.Contains(t, doc, "w:sectPr")
	assert.Contains(t, doc, `w:w="11906"`)
	assert.Contains(t, doc, `w:left="1587"`)
	assert.True(t, strings.Index(doc, "w:sectPr") > strings.Index(doc, "<w:p"), "sectPr is last")
}

func TestEngineRendersIntoDocx(t *testing.T) {
	d := New(Options{})
	e := render.NewEngine(render.Options{Name: "简报", Recipient: "甲", Sender: "乙"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rep := &report.Report{
		Time: "2024040800",
		Sections: []*report.Section{{
			Label:   "一、雨情",
			Content: []report.Item{report.Text("降雨<strong>偏多</strong>"), report.TableRef("table1")},
			Tables: map[string]report.TableSpec{"table1": {
				Name:    "表1",
				Columns: []report.Column{{Name: "站点", Values: []any{"杭州"}}},
			}},
		}},
	}

	res, err := e.Render(d, rep, style.ResolveRoles(nil))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sections)

	items := d.Docx().Document.Body.Items
	last := items[len(items)-1].(*docx.Paragraph)
	assert.Equal(t, "接收单位：甲\n发送单位：乙\n发送时间：2024年04月08日00时", last.String())

	data, err := d.Bytes()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/reportgen/internal/markup"
	"github.com/dgallion1/reportgen/internal/report"
)

// DOCXParser imports a Word draft. Heading1-4 paragraphs build the
// section tree, other paragraphs become prose with bold runs kept as
// emphasis, and tables become tables whose first row names the columns.
// Embedded images have no locator and are skipped.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*report.Report, error) {
	// go-docx needs a ReaderAt+size, so write to temp file.
	tmp, err := os.CreateTemp("", "reportgen-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	rep := &report.Report{Source: baseName(filename)}
	b := newTreeBuilder()
	lastText := ""

	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			level := docxHeadingLevel(it)
			text := docxParagraphText(it, level == 0)
			if text == "" {
				continue
			}
			if level > 0 {
				b.heading(level, text)
				lastText = ""
				continue
			}
			b.text(text)
			lastText = text
		case *docx.Table:
			spec := docxTable(it)
			// The paragraph right above a table is its title.
			if lastText != "" {
				spec.Name = markup.Strip(b.takeText())
			}
			b.table(spec)
			lastText = ""
		}
	}

	rep.Sections = b.sections()
	return rep, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}

// docxParagraphText joins the text of every run. With rich set, bold
// runs are wrapped in emphasis markup.
func docxParagraphText(para *docx.Paragraph, rich bool) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var rt strings.Builder
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				rt.WriteString(t.Text)
			case *docx.BarterRabbet:
				rt.WriteByte('\n')
			}
		}
		s := rt.String()
		if rich && s != "" && run.RunProperties != nil && run.RunProperties.Bold != nil {
			s = markup.Wrap(s)
		}
		buf.WriteString(s)
	}
	return strings.TrimSpace(buf.String())
}

func docxTable(t *docx.Table) report.TableSpec {
	var grid [][]string
	for _, row := range t.TableRows {
		var cells []string
		for _, c := range row.TableCells {
			var parts []string
			for _, p := range c.Paragraphs {
				if s := docxParagraphText(p, false); s != "" {
					parts = append(parts, s)
				}
			}
			cells = append(cells, strings.Join(parts, "\n"))
		}
		grid = append(grid, cells)
	}
	if len(grid) == 0 {
		return report.TableSpec{}
	}
	return tableFromRows("", grid[0], grid[1:])
}

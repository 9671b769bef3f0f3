package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/reportgen/internal/markup"
	"github.com/dgallion1/reportgen/internal/report"
)

// MarkdownParser handles Markdown drafts using goldmark. Headings 1-4
// build the section tree, paragraphs become prose with **strong** spans
// kept as emphasis, images become pictures and GFM tables become tables.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*report.Report, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	rep := &report.Report{Source: baseName(filename)}
	b := newTreeBuilder()
	// A prose-only paragraph directly above a table becomes its title.
	captionable := false

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b.heading(node.Level, markup.Strip(inlineText(node, src)))
			captionable = false

		case *east.Table:
			spec := markdownTable(node, src)
			if captionable {
				spec.Name = markup.Strip(b.takeText())
			}
			b.table(spec)
			captionable = false

		case *ast.Paragraph:
			images := collectImages(node, src)
			prose := strings.TrimSpace(inlineText(node, src))
			b.text(prose)
			for _, img := range images {
				b.picture(img)
			}
			captionable = prose != "" && len(images) == 0

		default:
			b.text(extractText(n, src))
			captionable = false
		}
	}

	rep.Sections = b.sections()
	return rep, nil
}

// markdownTable reads a GFM table: the header row names the columns and
// every body row supplies one value per column.
func markdownTable(t *east.Table, src []byte) report.TableSpec {
	var header []string
	var rows [][]string
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, markup.Strip(inlineText(c, src)))
		}
		if _, ok := r.(*east.TableHeader); ok {
			header = cells
		} else {
			rows = append(rows, cells)
		}
	}
	return tableFromRows("", header, rows)
}

func collectImages(n ast.Node, src []byte) []report.PictureSpec {
	var out []report.PictureSpec
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if img, ok := c.(*ast.Image); ok && entering {
			out = append(out, report.PictureSpec{
				Name: strings.TrimSpace(inlineText(img, src)),
				URL:  string(img.Destination),
				Size: DefaultPictureWidth,
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

// inlineText renders the inline children of n as prose, mapping strong
// emphasis to the <strong> tag and dropping images.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Value(src))
			if node.HardLineBreak() {
				buf.WriteByte('\n')
			} else if node.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.Emphasis:
			inner := inlineText(node, src)
			if node.Level >= 2 {
				buf.WriteString(markup.Wrap(inner))
			} else {
				buf.WriteString(inner)
			}
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(src))
			}
		case *ast.Image:
			continue
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

// extractText gets the text content of a block the parser has no special
// handling for (lists, quotes, code).
func extractText(n ast.Node, src []byte) string {
	if !n.HasChildren() {
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	if n.FirstChild().Type() != ast.TypeBlock {
		return strings.TrimSpace(inlineText(n, src))
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := extractText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

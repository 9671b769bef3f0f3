package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/reportgen/internal/report"
	"github.com/dgallion1/reportgen/internal/style"
)

// Parser converts raw input bytes into a report tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*report.Report, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".json":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".txt":      true,
	".csv":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// DefaultPictureWidth is the width in cm given to pictures whose source
// format has no way to say how wide they should be.
const DefaultPictureWidth = 14.0

// baseName strips directory and extension from a filename.
func baseName(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// treeBuilder assembles a section tree from a flat stream of headings
// and blocks, the way heading-based formats describe structure. Content
// seen before the first heading goes into an unlabeled leading section.
type treeBuilder struct {
	root  report.Section
	stack []frame
}

type frame struct {
	node  *report.Section
	level int
}

func newTreeBuilder() *treeBuilder {
	b := &treeBuilder{}
	b.stack = []frame{{node: &b.root, level: 0}}
	return b
}

// heading opens a section at level. Levels deeper than the last styled
// title level are folded into it.
func (b *treeBuilder) heading(level int, label string) {
	if level > style.MaxDepth {
		level = style.MaxDepth
	}
	if level < 1 {
		level = 1
	}
	node := &report.Section{Label: label}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, frame{node: node, level: level})
}

func (b *treeBuilder) current() *report.Section {
	return b.stack[len(b.stack)-1].node
}

func (b *treeBuilder) text(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	n := b.current()
	n.Content = append(n.Content, report.Text(s))
}

// takeText removes and returns the last content item of the current
// section if it is prose.
func (b *treeBuilder) takeText() string {
	n := b.current()
	last := len(n.Content) - 1
	if last < 0 || n.Content[last].Kind != report.ItemText {
		return ""
	}
	s := n.Content[last].Value
	n.Content = n.Content[:last]
	return s
}

func (b *treeBuilder) picture(spec report.PictureSpec) {
	n := b.current()
	if n.Pics == nil {
		n.Pics = map[string]report.PictureSpec{}
	}
	key := fmt.Sprintf("pic%d", len(n.Pics)+1)
	n.Pics[key] = spec
	n.Content = append(n.Content, report.PictureRef(key))
}

func (b *treeBuilder) table(spec report.TableSpec) {
	n := b.current()
	if n.Tables == nil {
		n.Tables = map[string]report.TableSpec{}
	}
	key := fmt.Sprintf("table%d", len(n.Tables)+1)
	n.Tables[key] = spec
	n.Content = append(n.Content, report.TableRef(key))
}

// sections returns the level-1 sections built so far.
func (b *treeBuilder) sections() []*report.Section {
	out := b.root.Children
	if len(b.root.Content) > 0 {
		lead := &report.Section{
			Content: b.root.Content,
			Pics:    b.root.Pics,
			Tables:  b.root.Tables,
		}
		out = append([]*report.Section{lead}, out...)
	}
	return out
}

// tableFromRows turns a header row plus body rows into a table spec.
// Short rows are padded so every column has the same length.
func tableFromRows(name string, header []string, rows [][]string) report.TableSpec {
	spec := report.TableSpec{Name: name}
	for c, h := range header {
		col := report.Column{Name: strings.TrimSpace(h), Values: make([]any, len(rows))}
		for r, row := range rows {
			if c < len(row) {
				col.Values[r] = strings.TrimSpace(row[c])
			} else {
				col.Values[r] = ""
			}
		}
		spec.Columns = append(spec.Columns, col)
	}
	return spec
}

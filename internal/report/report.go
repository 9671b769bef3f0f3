package report

import (
	"github.com/dgallion1/reportgen/internal/style"
)

// Report is the root of a parsed report description.
type Report struct {
	Name      string       // Report title shown in the title block
	Source    string       // Input base name, the title of last resort
	Time      string       // Issue time, YYYYMMDDHH or RFC 3339 (empty if N/A)
	Recipient string       // Sign-off recipient (empty falls back to config)
	Sender    string       // Sign-off sender (empty falls back to config)
	Styles    style.Config // Role styles carried by the input itself
	Sections  []*Section   // Level-1 sections
}

// Section is one heading level of the report. Children are the next
// nesting level; a nil or empty slice ends that branch.
type Section struct {
	Label    string
	Content  []Item
	Pics     map[string]PictureSpec
	Tables   map[string]TableSpec
	Children []*Section
}

// ItemKind tags a content item.
type ItemKind int

const (
	ItemText ItemKind = iota
	ItemPicture
	ItemTable
)

func (k ItemKind) String() string {
	switch k {
	case ItemPicture:
		return "picture"
	case ItemTable:
		return "table"
	default:
		return "text"
	}
}

// Item is one renderable unit of a section: prose (Value holds the text)
// or a reference into the section's Pics/Tables (Value holds the key).
type Item struct {
	Kind  ItemKind
	Value string
}

// Text returns a prose item.
func Text(s string) Item { return Item{Kind: ItemText, Value: s} }

// PictureRef returns a reference to Section.Pics[key].
func PictureRef(key string) Item { return Item{Kind: ItemPicture, Value: key} }

// TableRef returns a reference to Section.Tables[key].
func TableRef(key string) Item { return Item{Kind: ItemTable, Value: key} }

// PictureSpec describes an image and its caption.
type PictureSpec struct {
	Name string  // caption
	URL  string  // image locator (file path)
	Size float64 // target width in cm
}

// Column is one named table column with its body values in row order.
type Column struct {
	Name   string
	Values []any
}

// TableSpec describes a data table. Widths are per column and Heights per
// row (header first), both in cm.
type TableSpec struct {
	Name    string
	Columns []Column
	Widths  []float64
	Heights []float64
}

// Walk visits every section depth-first, in document order.
func Walk(sections []*Section, fn func(depth int, s *Section)) {
	var walk func(depth int, nodes []*Section)
	walk = func(depth int, nodes []*Section) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			fn(depth, n)
			walk(depth+1, n.Children)
		}
	}
	walk(1, sections)
}

// Stats counts the sections of r and the deepest level they reach.
func (r *Report) Stats() (sections, depth int) {
	Walk(r.Sections, func(d int, _ *Section) {
		sections++
		if d > depth {
			depth = d
		}
	})
	return sections, depth
}

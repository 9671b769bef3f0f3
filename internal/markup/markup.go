// Package markup splits report prose into plain and emphasized spans.
//
// The only recognized markup is a paired <strong>...</strong> tag on a
// single line. Tags do not nest, and an opening tag without a matching
// close on the same line is kept as literal text.
package markup

import (
	"regexp"
	"strings"
)

const (
	OpenTag  = "<strong>"
	CloseTag = "</strong>"
)

// Kind tags a segment as plain or emphasized text.
type Kind int

const (
	Plain Kind = iota
	Emphasis
)

func (k Kind) String() string {
	if k == Emphasis {
		return "emphasis"
	}
	return "plain"
}

// Segment is a run of text with a single kind.
type Segment struct {
	Kind Kind
	Text string
}

// Minimal match so adjacent spans stay independent.
var strongRe = regexp.MustCompile(`<strong>(.*?)</strong>`)

// Split returns the segments of text in order. Empty plain stretches
// between spans are dropped; an empty emphasis span is kept.
func Split(text string) []Segment {
	if text == "" {
		return nil
	}
	var segs []Segment
	last := 0
	for _, m := range strongRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			segs = append(segs, Segment{Kind: Plain, Text: text[last:m[0]]})
		}
		segs = append(segs, Segment{Kind: Emphasis, Text: text[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(text) {
		segs = append(segs, Segment{Kind: Plain, Text: text[last:]})
	}
	return segs
}

// Strip returns text with the emphasis tags of matched spans removed.
func Strip(text string) string {
	return strongRe.ReplaceAllString(text, "$1")
}

// Wrap marks s as emphasized. Each line is wrapped on its own since a
// span cannot cross a line break.
func Wrap(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" || len(lines) == 1 {
			lines[i] = OpenTag + line + CloseTag
		}
	}
	return strings.Join(lines, "\n")
}

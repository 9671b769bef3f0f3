package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/reportgen/internal/markup"
	"github.com/dgallion1/reportgen/internal/report"
)

// HTMLParser handles HTML drafts. h1-h4 build the section tree, <p> and
// <li> become prose with <strong>/<b> kept as emphasis, <img> becomes a
// picture (alt is the caption, data-width the width in cm) and <table>
// becomes a table whose first row names the columns. A <caption> or a
// data-title attribute gives the table its title.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*report.Report, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	rep := &report.Report{Source: baseName(filename)}
	if title := findTitle(doc); title != "" {
		rep.Name = title
	}

	b := newTreeBuilder()
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				b.heading(level, textContent(n))
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "title":
				return
			case "p", "li", "blockquote":
				b.text(richText(n))
				for _, img := range findAll(n, "img") {
					b.picture(htmlPicture(img))
				}
				return
			case "img":
				b.picture(htmlPicture(n))
				return
			case "table":
				b.table(htmlTable(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	rep.Sections = b.sections()
	return rep, nil
}

func htmlPicture(n *html.Node) report.PictureSpec {
	spec := report.PictureSpec{
		Name: attr(n, "alt"),
		URL:  attr(n, "src"),
		Size: DefaultPictureWidth,
	}
	if w, err := strconv.ParseFloat(attr(n, "data-width"), 64); err == nil && w > 0 {
		spec.Size = w
	}
	return spec
}

func htmlTable(t *html.Node) report.TableSpec {
	name := attr(t, "data-title")
	var grid [][]string
	for _, row := range findAll(t, "tr") {
		var cells []string
		for c := row.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "th" || c.Data == "td") {
				cells = append(cells, textContent(c))
			}
		}
		grid = append(grid, cells)
	}
	if caps := findAll(t, "caption"); len(caps) > 0 && name == "" {
		name = textContent(caps[0])
	}
	if len(grid) == 0 {
		return report.TableSpec{Name: name}
	}
	return tableFromRows(name, grid[0], grid[1:])
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// richText is the text content of n with strong/b spans re-emitted as
// emphasis markup and images dropped.
func richText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
			return
		case n.Type == html.ElementNode && (n.Data == "strong" || n.Data == "b"):
			buf.WriteString(markup.Wrap(textContent(n)))
			return
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte('\n')
			return
		case n.Type == html.ElementNode && n.Data == "img":
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// findAll returns every descendant element of n named tag, in document
// order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
		out = append(out, findAll(c, tag)...)
	}
	return out
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

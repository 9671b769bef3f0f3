package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"github.com/tidwall/gjson"

	"github.com/dgallion1/reportgen/internal/report"
	"github.com/dgallion1/reportgen/internal/style"
)

// JSONParser reads the native report description: either an object
//
//	{"name": ..., "time": ..., "recipient": ..., "sender": ...,
//	 "style": {...}, "data": [{"title-1": {...}}, ...]}
//
// or a bare array of level-1 entries. Every entry may be wrapped in a
// single "title-N" key. gjson is used so table columns keep the order
// they were written in.
type JSONParser struct{}

var (
	picKey     = regexp.MustCompile(`^pic\d+$`)
	tableKey   = regexp.MustCompile(`^table\d+$`)
	wrapperKey = regexp.MustCompile(`^title-\d+$`)
)

func (p *JSONParser) Parse(r io.Reader, filename string) (*report.Report, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(src) {
		return nil, fmt.Errorf("parse json: malformed document")
	}
	root := gjson.ParseBytes(src)

	rep := &report.Report{Source: baseName(filename)}
	var data gjson.Result
	switch {
	case root.IsArray():
		data = root
	case root.IsObject():
		if v := root.Get("name"); v.Exists() {
			rep.Name = v.String()
		}
		rep.Time = root.Get("time").String()
		rep.Recipient = root.Get("recipient").String()
		rep.Sender = root.Get("sender").String()
		if st := root.Get("style"); st.Exists() {
			cfg, err := style.Parse([]byte(st.Raw), "json")
			if err != nil {
				return nil, err
			}
			rep.Styles = cfg
		}
		data = root.Get("data")
		if !data.Exists() {
			return nil, fmt.Errorf("parse json: missing \"data\"")
		}
	default:
		return nil, fmt.Errorf("parse json: top level must be an object or array")
	}

	sections, err := parseLevel(data, 1, "data")
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	rep.Sections = sections
	return rep, nil
}

func parseLevel(arr gjson.Result, level int, path string) ([]*report.Section, error) {
	if !arr.IsArray() {
		return nil, fmt.Errorf("%s: expected an array of sections", path)
	}
	var out []*report.Section
	for i, item := range arr.Array() {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		node := unwrap(item)
		if !node.IsObject() {
			return nil, fmt.Errorf("%s: section must be an object", itemPath)
		}
		sec, err := parseSection(node, level, itemPath)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, nil
}

// unwrap returns the body of a {"title-N": {...}} entry, or the entry
// itself when it is not wrapped.
func unwrap(item gjson.Result) gjson.Result {
	if !item.IsObject() {
		return item
	}
	var key string
	var body gjson.Result
	n := 0
	item.ForEach(func(k, v gjson.Result) bool {
		key, body = k.String(), v
		n++
		return n < 2
	})
	if n == 1 && wrapperKey.MatchString(key) {
		return body
	}
	return item
}

func parseSection(node gjson.Result, level int, path string) (*report.Section, error) {
	sec := &report.Section{Label: node.Get("label").String()}

	if content := node.Get("content"); content.Exists() {
		if !content.IsArray() {
			return nil, fmt.Errorf("%s.content: expected an array", path)
		}
		for i, c := range content.Array() {
			if c.Type != gjson.String {
				return nil, fmt.Errorf("%s.content[%d]: expected a string", path, i)
			}
			sec.Content = append(sec.Content, classify(c.String()))
		}
	}

	if pics := node.Get("pic"); pics.IsObject() {
		sec.Pics = map[string]report.PictureSpec{}
		pics.ForEach(func(k, v gjson.Result) bool {
			sec.Pics[k.String()] = report.PictureSpec{
				Name: v.Get("name").String(),
				URL:  v.Get("url").String(),
				Size: v.Get("size").Float(),
			}
			return true
		})
	}

	if tables := node.Get("table"); tables.IsObject() {
		sec.Tables = map[string]report.TableSpec{}
		var err error
		tables.ForEach(func(k, v gjson.Result) bool {
			var spec report.TableSpec
			spec, err = parseTable(v, fmt.Sprintf("%s.table.%s", path, k.String()))
			if err != nil {
				return false
			}
			sec.Tables[k.String()] = spec
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	if data := node.Get("data"); data.Exists() && data.Type != gjson.Null {
		children, err := parseLevel(data, level+1, path+".data")
		if err != nil {
			return nil, err
		}
		sec.Children = children
	}
	return sec, nil
}

// classify turns a content string into a picture or table reference when
// it looks like one. This is the only place item kinds are inferred.
func classify(s string) report.Item {
	switch {
	case picKey.MatchString(s):
		return report.PictureRef(s)
	case tableKey.MatchString(s):
		return report.TableRef(s)
	default:
		return report.Text(s)
	}
}

func parseTable(v gjson.Result, path string) (report.TableSpec, error) {
	spec := report.TableSpec{
		Name:    v.Get("name").String(),
		Widths:  floats(v.Get("widths")),
		Heights: floats(v.Get("heights")),
	}
	content := v.Get("content")
	if !content.IsObject() {
		return spec, fmt.Errorf("%s.content: expected an object of columns", path)
	}
	var err error
	content.ForEach(func(k, col gjson.Result) bool {
		if !col.IsArray() {
			err = fmt.Errorf("%s.content.%s: expected an array", path, k.String())
			return false
		}
		column := report.Column{Name: k.String()}
		for _, cell := range col.Array() {
			column.Values = append(column.Values, cellValue(cell))
		}
		spec.Columns = append(spec.Columns, column)
		return true
	})
	return spec, err
}

// cellValue keeps numbers as written, so 1.0 is not shown as 1.
func cellValue(v gjson.Result) any {
	if v.Type == gjson.Number {
		return json.Number(v.Raw)
	}
	return v.Value()
}

func floats(v gjson.Result) []float64 {
	if !v.IsArray() {
		return nil
	}
	arr := v.Array()
	out := make([]float64, len(arr))
	for i, x := range arr {
		out[i] = x.Float()
	}
	return out
}

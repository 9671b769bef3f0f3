package style

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Alignment is the horizontal alignment of a paragraph.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignment validates an alignment value. Matching is case-insensitive.
func ParseAlignment(v string) (Alignment, error) {
	switch a := Alignment(strings.ToLower(strings.TrimSpace(v))); a {
	case AlignLeft, AlignCenter, AlignRight:
		return a, nil
	}
	return "", &Error{Field: "alignment", Value: v}
}

// Error reports a style attribute whose value the renderer cannot apply.
type Error struct {
	Field string
	Value string
}

func (e *Error) Error() string {
	return fmt.Sprintf("style: unrecognized %s %q", e.Field, e.Value)
}

// RGB is a 24-bit color.
type RGB [3]uint8

// Black is the default text color.
var Black = RGB{0, 0, 0}

// Hex returns the color as RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c[0], c[1], c[2])
}

// ParseRGB accepts "RRGGBB" or "#RRGGBB".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB{uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}

// UnmarshalJSON accepts [r, g, b] or a hex string.
func (c *RGB) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := ParseRGB(s)
		if err != nil {
			return err
		}
		*c = v
		return nil
	}
	var parts []int
	if err := json.Unmarshal(b, &parts); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	return c.fromInts(parts)
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (c *RGB) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		v, err := ParseRGB(n.Value)
		if err != nil {
			return err
		}
		*c = v
		return nil
	}
	var parts []int
	if err := n.Decode(&parts); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	return c.fromInts(parts)
}

func (c *RGB) fromInts(parts []int) error {
	if len(parts) != 3 {
		return fmt.Errorf("color: want 3 components, got %d", len(parts))
	}
	for i, p := range parts {
		if p < 0 || p > 255 {
			return fmt.Errorf("color: component %d out of range: %d", i, p)
		}
		c[i] = uint8(p)
	}
	return nil
}

// Record is a fully resolved set of formatting attributes for one role.
type Record struct {
	Font        string
	Size        float64 // points
	Color       RGB
	Bold        bool
	Alignment   Alignment
	LineSpacing float64 // multiple of single spacing
	SpaceBefore float64 // points
	SpaceAfter  float64 // points
	Indent      float64 // first-line indent in full-width characters
}

// Partial is a style record as supplied by report authors. Nil fields
// fall back to the defaults.
type Partial struct {
	Font        *string  `json:"font,omitempty" yaml:"font,omitempty"`
	Size        *float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Color       *RGB     `json:"RGB,omitempty" yaml:"RGB,omitempty"`
	Bold        *bool    `json:"bold,omitempty" yaml:"bold,omitempty"`
	Alignment   *string  `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	LineSpacing *float64 `json:"line_spacing,omitempty" yaml:"line_spacing,omitempty"`
	SpaceBefore *float64 `json:"space_before,omitempty" yaml:"space_before,omitempty"`
	SpaceAfter  *float64 `json:"space_after,omitempty" yaml:"space_after,omitempty"`
	Indent      *float64 `json:"indent,omitempty" yaml:"indent,omitempty"`
}

// Default returns the record used for every omitted attribute.
func Default() Record {
	return Record{
		Font:        "仿宋",
		Size:        14,
		Color:       Black,
		Bold:        false,
		Alignment:   AlignLeft,
		LineSpacing: 1.25,
		SpaceBefore: 0,
		SpaceAfter:  0,
		Indent:      0,
	}
}

// Resolve fills the omissions of p with the defaults. The alignment is
// copied as given; it is validated when a paragraph is formatted.
func Resolve(p Partial) Record {
	r := Default()
	if p.Font != nil {
		r.Font = *p.Font
	}
	if p.Size != nil {
		r.Size = *p.Size
	}
	if p.Color != nil {
		r.Color = *p.Color
	}
	if p.Bold != nil {
		r.Bold = *p.Bold
	}
	if p.Alignment != nil {
		r.Alignment = Alignment(*p.Alignment)
	}
	if p.LineSpacing != nil {
		r.LineSpacing = *p.LineSpacing
	}
	if p.SpaceBefore != nil {
		r.SpaceBefore = *p.SpaceBefore
	}
	if p.SpaceAfter != nil {
		r.SpaceAfter = *p.SpaceAfter
	}
	if p.Indent != nil {
		r.Indent = *p.Indent
	}
	return r
}

package render

import (
	"strconv"
	"strings"

	"github.com/dgallion1/reportgen/internal/style"
)

// KeywordStyle configures KeywordParagraph. It predates style records and
// is only used for the title block.
type KeywordStyle struct {
	Font         string
	Size         float64
	Color        style.RGB // plain text
	Keyword      string    // highlighted wherever it occurs; empty disables
	KeywordColor style.RGB
	Bold         bool   // applies to the whole text when Keyword is empty
	Indent       string // first-line indent in characters; unparseable means 0
	Center       bool
	Right        bool // ignored when Center is set
	LineSpacing  float64
	SpaceBefore  float64
	SpaceAfter   float64
}

// TitleStyle returns the keyword style of a title-block line.
func TitleStyle(size float64, bold bool, color style.RGB) KeywordStyle {
	return KeywordStyle{
		Font:        style.Default().Font,
		Size:        size,
		Color:       color,
		Bold:        bold,
		Center:      true,
		LineSpacing: 1.0,
	}
}

// KeywordParagraph appends a paragraph where every literal occurrence of
// ks.Keyword becomes a bold run in ks.KeywordColor.
func KeywordParagraph(s Surface, text string, ks KeywordStyle) {
	p := s.AddParagraph()
	textColor, keyColor := ks.Color, ks.KeywordColor
	if ks.Keyword != "" {
		for i, part := range strings.Split(text, ks.Keyword) {
			if i > 0 {
				p.AddRun(ks.Keyword).SetStyle(RunStyle{Font: ks.Font, Size: ks.Size, Color: &keyColor, Bold: true})
			}
			p.AddRun(part).SetStyle(RunStyle{Font: ks.Font, Size: ks.Size, Color: &textColor})
		}
	} else {
		p.AddRun(text).SetStyle(RunStyle{Font: ks.Font, Size: ks.Size, Color: &textColor, Bold: ks.Bold})
	}

	chars, err := strconv.Atoi(strings.TrimSpace(ks.Indent))
	if err != nil {
		chars = 0
	}
	align := style.AlignLeft
	if ks.Center {
		align = style.AlignCenter
	} else if ks.Right {
		align = style.AlignRight
	}
	p.SetFormat(ParagraphFormat{
		Alignment:       align,
		LineSpacing:     ks.LineSpacing,
		SpaceBefore:     ks.SpaceBefore,
		SpaceAfter:      ks.SpaceAfter,
		FirstLineIndent: float64(chars * CharWidthPt),
	})
}

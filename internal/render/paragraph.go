package render

import (
	"github.com/dgallion1/reportgen/internal/markup"
	"github.com/dgallion1/reportgen/internal/style"
)

// CharWidthPt is the width of one full-width character, used to turn an
// indent in characters into points.
const CharWidthPt = 12

// RenderParagraph appends a new paragraph holding text. Emphasized spans use
// emphasisStyle for their runs; everything else, including the paragraph
// formatting, comes from textStyle.
func RenderParagraph(s Surface, text string, textStyle, emphasisStyle style.Record) error {
	format, err := paragraphFormat(textStyle)
	if err != nil {
		return err
	}
	p := s.AddParagraph()
	plain := runStyleOf(textStyle)
	emph := runStyleOf(emphasisStyle)
	for _, seg := range markup.Split(text) {
		r := p.AddRun(seg.Text)
		if seg.Kind == markup.Emphasis {
			r.SetStyle(emph)
		} else {
			r.SetStyle(plain)
		}
	}
	p.SetFormat(format)
	return nil
}

// EmptyParagraph appends a spacing paragraph with no runs.
func EmptyParagraph(s Surface) {
	s.AddParagraph()
}

func paragraphFormat(r style.Record) (ParagraphFormat, error) {
	align, err := style.ParseAlignment(string(r.Alignment))
	if err != nil {
		return ParagraphFormat{}, err
	}
	return ParagraphFormat{
		Alignment:       align,
		LineSpacing:     r.LineSpacing,
		SpaceBefore:     r.SpaceBefore,
		SpaceAfter:      r.SpaceAfter,
		FirstLineIndent: r.Indent * CharWidthPt,
	}, nil
}

package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/reportgen/internal/report"
)

// TextParser handles plain text files. Blank lines separate paragraphs;
// each paragraph becomes one prose item of a single unlabeled section.
// Lines inside a paragraph are kept as line breaks.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*report.Report, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	rep := &report.Report{Source: baseName(filename)}
	if len(paragraphs) == 0 {
		return rep, nil
	}
	sec := &report.Section{}
	for _, para := range paragraphs {
		sec.Content = append(sec.Content, report.Text(para))
	}
	rep.Sections = []*report.Section{sec}
	return rep, nil
}

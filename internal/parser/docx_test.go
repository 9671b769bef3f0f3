package parser

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/reportgen/internal/report"
)

func buildDocx(t *testing.T) []byte {
	t.Helper()
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText("Preface")
	doc.AddParagraph().Style("Heading1").AddText("Findings")
	p := doc.AddParagraph()
	p.AddText("Disk is ")
	p.AddText("full").Bold()
	doc.AddParagraph().AddText("Usage")

	tbl := doc.AddTable(2, 2, 0, nil)
	for r, row := range [][]string{{"mount", "used"}, {"/var", "97%"}} {
		for c, v := range row {
			tbl.TableRows[r].TableCells[c].AddParagraph().AddText(v)
		}
	}

	doc.AddParagraph().Style("Heading2").AddText("Actions")
	doc.AddParagraph().AddText("Rotate logs")

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return buf.Bytes()
}

func TestDOCXParser_RoundTrip(t *testing.T) {
	p := &DOCXParser{}
	rep, err := p.Parse(bytes.NewReader(buildDocx(t)), "draft.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Name != "" || rep.Source != "draft" {
		t.Errorf("expected source %q and no name, got %q %q", "draft", rep.Source, rep.Name)
	}
	if len(rep.Sections) != 2 {
		t.Fatalf("expected lead section plus Findings, got %d", len(rep.Sections))
	}

	lead := rep.Sections[0]
	if lead.Label != "" || !reflect.DeepEqual(lead.Content, []report.Item{report.Text("Preface")}) {
		t.Errorf("unexpected lead section: %+v", lead)
	}

	findings := rep.Sections[1]
	if findings.Label != "Findings" {
		t.Errorf("expected %q, got %q", "Findings", findings.Label)
	}
	wantContent := []report.Item{
		report.Text("Disk is <strong>full</strong>"),
		report.TableRef("table1"),
	}
	if !reflect.DeepEqual(findings.Content, wantContent) {
		t.Errorf("expected %+v, got %+v", wantContent, findings.Content)
	}

	tbl := findings.Tables["table1"]
	if tbl.Name != "Usage" {
		t.Errorf("expected preceding paragraph as table name, got %q", tbl.Name)
	}
	wantCols := []report.Column{
		{Name: "mount", Values: []any{"/var"}},
		{Name: "used", Values: []any{"97%"}},
	}
	if !reflect.DeepEqual(tbl.Columns, wantCols) {
		t.Errorf("expected %+v, got %+v", wantCols, tbl.Columns)
	}

	if len(findings.Children) != 1 || findings.Children[0].Label != "Actions" {
		t.Fatalf("expected Actions child, got %+v", findings.Children)
	}
	if got := findings.Children[0].Content; len(got) != 1 || got[0].Value != "Rotate logs" {
		t.Errorf("unexpected Actions content: %+v", got)
	}
}

func TestDOCXParser_Garbage(t *testing.T) {
	p := &DOCXParser{}
	if _, err := p.Parse(bytes.NewReader([]byte("not a zip")), "bad.docx"); err == nil {
		t.Fatal("expected an error for non-docx input")
	}
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 2", 2},
		{"Heading4", 4},
		{"Heading9", 0},
		{"Normal", 0},
		{"", 0},
	}
	for _, tt := range tests {
		p := &docx.Paragraph{}
		if tt.style != "" {
			p.Style(tt.style)
		}
		if got := docxHeadingLevel(p); got != tt.want {
			t.Errorf("style %q: got %d, want %d", tt.style, got, tt.want)
		}
	}
}

package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/reportgen/internal/report"
)

// CSVParser handles CSV files. The file becomes one section holding one
// table: the first record names the columns, every later record is a row.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*report.Report, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	name := baseName(filename)
	rep := &report.Report{Source: name}
	if len(records) == 0 {
		return rep, nil
	}

	spec := tableFromRows(name, records[0], records[1:])
	rep.Sections = []*report.Section{{
		Content: []report.Item{report.TableRef("table1")},
		Tables:  map[string]report.TableSpec{"table1": spec},
	}}
	return rep, nil
}

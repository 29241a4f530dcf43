package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// readCSV splits a header-first CSV. Blank lines are skipped and rows may
// have any number of fields; each row keeps the line it started on.
func readCSV(data []byte) ([]string, []row, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // allow variable columns
	r.LazyQuotes = true

	var (
		header []string
		rows   []row
	)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if header == nil {
			header = record
			continue
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, row{line: line, cells: record})
	}
	return header, rows, nil
}

package parser

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads the first worksheet with raw cell values, so numbers keep
// their stored precision instead of the display format.
func readXLSX(data []byte) ([]string, []row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("error reading sheet %s: %w", sheets[0], err)
	}

	nonEmpty := nonEmptyRows(rows)
	if len(nonEmpty) == 0 {
		return nil, nil, nil
	}
	return nonEmpty[0].cells, nonEmpty[1:], nil
}

package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
)

// maxXLSRows is the BIFF8 row limit.
const maxXLSRows = 65536

func readXLS(data []byte) ([]string, []row, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, nil, fmt.Errorf("error creating workbook: %w", err)
	}

	rows := nonEmptyRows(workbook.ReadAllCells(maxXLSRows))
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0].cells, rows[1:], nil
}

// nonEmptyRows drops spreadsheet padding rows whose cells are all blank,
// numbering the rest by their 1-based sheet row.
func nonEmptyRows(cells [][]string) []row {
	var out []row
	for i, r := range cells {
		for _, cell := range r {
			if cell != "" {
				out = append(out, row{line: i + 1, cells: r})
				break
			}
		}
	}
	return out
}

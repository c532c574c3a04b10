package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
)

const maxWorkbookRows = 1000

// readWorkbookRows extracts the raw cell grid from an XLS workbook so
// spreadsheet statements run through the same classification and
// normalization path as delimited text. Fully empty rows are dropped, the
// way blank lines are in text input.
func readWorkbookRows(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}

	rows := workbook.ReadAllCells(maxWorkbookRows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}
	return dropEmptyRows(rows), nil
}

func dropEmptyRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

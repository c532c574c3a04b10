// Package render formats normalized rows for humans and for CSV export.
// Formatting lives here, outside the parsing core: dates render as
// YYYY-MM-DD and amounts with fixed two decimal places.
package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tabnorm/tabnorm/pkg/models"
)

// FilterFunc selects which normalized rows are rendered.
type FilterFunc func(models.Row) bool

// WriteCSV writes the rows as comma-delimited text, one column per field in
// the original column order.
func WriteCSV(w io.Writer, fields []models.Field, rows []models.Row, filter FilterFunc) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = string(f)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, row := range rows {
		if filter != nil && !filter(row) {
			continue
		}
		record := make([]string, len(fields))
		for i, f := range fields {
			record[i] = row[f].Display()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSV is the in-memory convenience form of WriteCSV.
func CSV(fields []models.Field, rows []models.Row, filter FilterFunc) []byte {
	var buf bytes.Buffer
	// Writing to a buffer cannot fail.
	_ = WriteCSV(&buf, fields, rows, filter)
	return buf.Bytes()
}

// Line renders one row as "field=value" pairs in column order, for terminal
// output.
func Line(fields []models.Field, row models.Row) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s=%s", f, row[f].Display())
	}
	return strings.Join(parts, " | ")
}

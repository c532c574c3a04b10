package models

import (
	"fmt"
	"strings"
)

// ColumnMapping assigns a field name to every physical column index of a
// headerless statement. It is computed once per file (or supplied by the
// caller) and read-only afterwards.
type ColumnMapping map[int]Field

var requiredOnce = []Field{FieldTransactionDate, FieldAmount, FieldCurrency, FieldStatus, FieldDescription}

// Validate checks that the mapping is usable for rows of the given width:
// dense over [0, width), exactly one column for each of transaction_date,
// amount, currency, status and description. Remaining columns must be
// unknown.
func (m ColumnMapping) Validate(width int) error {
	if len(m) != width {
		return fmt.Errorf("column mapping covers %d columns, statement has %d", len(m), width)
	}
	counts := make(map[Field]int, len(m))
	for i := 0; i < width; i++ {
		f, ok := m[i]
		if !ok {
			return fmt.Errorf("column mapping missing index %d", i)
		}
		counts[f]++
	}
	var bad []string
	for _, f := range requiredOnce {
		if counts[f] != 1 {
			bad = append(bad, fmt.Sprintf("%s=%d", f, counts[f]))
		}
	}
	for f := range counts {
		switch f {
		case FieldTransactionDate, FieldAmount, FieldCurrency, FieldStatus, FieldDescription, FieldUnknown:
		default:
			bad = append(bad, fmt.Sprintf("unexpected field %q", f))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid column mapping: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Fields returns the field names in physical column order for rows of the
// given width.
func (m ColumnMapping) Fields(width int) ([]Field, error) {
	fields := make([]Field, width)
	for i := 0; i < width; i++ {
		f, ok := m[i]
		if !ok {
			return nil, fmt.Errorf("column mapping missing index %d", i)
		}
		fields[i] = f
	}
	return fields, nil
}

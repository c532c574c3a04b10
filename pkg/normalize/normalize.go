// Package normalize converts raw statement cells into typed values.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/tabnorm/tabnorm/pkg/models"
	"github.com/tabnorm/tabnorm/pkg/money"
)

// DateError reports a transaction date that matched neither the strict
// YYYY-MM-DD layout nor any ISO-8601 fallback.
type DateError struct {
	Input string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("could not parse date %q", e.Input)
}

const dateLayout = "2006-01-02"

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Date parses a transaction date: the strict date layout first, general
// ISO-8601 forms as fallback.
func Date(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &DateError{Input: s}
}

// Row converts one raw record into typed values keyed by field name. Every
// cell is trimmed; transaction_date and amount are parsed, status is
// lowercased, everything else stays a plain string. A parse failure here is
// a genuine data-quality fault and propagates.
func Row(fields []models.Field, record []string) (models.Row, error) {
	row := make(models.Row, len(fields))
	for i, field := range fields {
		raw := strings.TrimSpace(record[i])
		switch field {
		case models.FieldTransactionDate:
			t, err := Date(raw)
			if err != nil {
				return nil, err
			}
			row[field] = models.DateValue(t)
		case models.FieldAmount:
			d, err := money.Parse(raw)
			if err != nil {
				return nil, err
			}
			row[field] = models.DecimalValue(d)
		case models.FieldStatus:
			row[field] = models.StringValue(strings.ToLower(raw))
		default:
			row[field] = models.StringValue(raw)
		}
	}
	return row, nil
}

// Package classify decides what the columns of a statement mean: it
// normalizes declared headers and, for headerless files, infers a column
// mapping from the content of the first data row.
package classify

import (
	"regexp"
	"strings"

	"github.com/tabnorm/tabnorm/pkg/money"
)

var (
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	currencyRe = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

var statuses = map[string]struct{}{
	"completed": {},
	"pending":   {},
	"failed":    {},
	"cancelled": {},
}

// IsDate reports whether s is a date of the exact form YYYY-MM-DD.
func IsDate(s string) bool {
	return dateRe.MatchString(strings.TrimSpace(s))
}

// IsCurrencyCode reports whether s is exactly three alphabetic characters.
func IsCurrencyCode(s string) bool {
	return currencyRe.MatchString(strings.TrimSpace(s))
}

// IsStatus reports whether s is a known transaction status, ignoring case.
func IsStatus(s string) bool {
	_, ok := statuses[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// IsAmount reports whether s parses as a monetary amount. A parse failure
// is the negative answer, never an error.
func IsAmount(s string) bool {
	_, err := money.Parse(s)
	return err == nil
}

// Package money parses locale-ambiguous monetary strings into exact
// decimals. Amounts arrive with unknown digit grouping: "1,234.56" (US) and
// "1.234,56" (European) denote the same value, and a comma-only string like
// "1,23" may be either a decimal or a thousands-grouped integer. The
// disambiguation here is heuristic and deliberately kept stable; callers
// that need a yes/no answer should go through classify.IsAmount.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseError reports an amount string that did not survive separator
// disambiguation as a decimal literal.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not convert amount %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var symbolReplacer = strings.NewReplacer("$", "", "€", "", "£", "")

// Parse converts a raw amount string to an exact decimal.
//
// Currency symbols and surrounding whitespace are stripped first. When both
// separators occur the rightmost one is the decimal separator and the other
// is grouping. A lone comma is the decimal separator only when exactly two
// digits follow it and the string is longer than three characters; otherwise
// every comma is grouping. A lone dot is always the decimal separator. The
// comma-only rule is genuinely ambiguous for grouped values with two
// trailing digits and is preserved as-is.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(symbolReplacer.Replace(s))

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			// European style: 1.234,56
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			// US style: 1,234.56
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		if len(cleaned) > 3 && cleaned[len(cleaned)-3] == ',' {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, &ParseError{Input: s, Err: err}
	}
	return d, nil
}

// Format renders d with fixed two decimal places, the human-facing form of
// an amount. Format and Parse round-trip for any parsed amount.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

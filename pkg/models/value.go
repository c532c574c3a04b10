package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates the typed representations a normalized cell can take.
type Kind int

const (
	KindString Kind = iota
	KindDate
	KindDecimal
)

// Value is a typed cell of a normalized row. The zero value is an empty
// string value. Construct with StringValue, DateValue or DecimalValue and
// read back through the checked accessors so a consumer can never confuse
// shapes silently.
type Value struct {
	kind Kind
	str  string
	date time.Time
	dec  decimal.Decimal
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func DateValue(t time.Time) Value {
	return Value{kind: KindDate, date: t}
}

func DecimalValue(d decimal.Decimal) Value {
	return Value{kind: KindDecimal, dec: d}
}

func (v Value) Kind() Kind { return v.kind }

// Date returns the calendar value when the cell holds one.
func (v Value) Date() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// Decimal returns the exact numeric value when the cell holds one.
func (v Value) Decimal() (decimal.Decimal, bool) {
	return v.dec, v.kind == KindDecimal
}

// Text returns the raw string value when the cell holds one.
func (v Value) Text() (string, bool) {
	return v.str, v.kind == KindString
}

// Display renders the cell for human consumption: dates as YYYY-MM-DD,
// amounts with fixed two decimal places, strings as-is.
func (v Value) Display() string {
	switch v.kind {
	case KindDate:
		return v.date.Format("2006-01-02")
	case KindDecimal:
		return v.dec.StringFixed(2)
	default:
		return v.str
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindDate:
		return v.date.Equal(o.date)
	case KindDecimal:
		return v.dec.Equal(o.dec)
	default:
		return v.str == o.str
	}
}

// Row maps field names to typed values. Its key set always equals the field
// set of the header or column mapping it was built from.
type Row map[Field]Value

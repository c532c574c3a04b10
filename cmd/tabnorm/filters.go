package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tabnorm/tabnorm/pkg/models"
	"github.com/tabnorm/tabnorm/pkg/render"
)

type filters struct {
	startDate string
	endDate   string
	minAmount float64
	maxAmount float64
	status    string

	start time.Time
	end   time.Time
}

// validate parses the date flags up front so a malformed --start or --end
// fails the command instead of silently matching nothing.
func (f *filters) validate() error {
	var err error
	if f.startDate != "" {
		if f.start, err = time.Parse("2006-01-02", f.startDate); err != nil {
			return fmt.Errorf("invalid --start date %q: expected YYYY-MM-DD", f.startDate)
		}
	}
	if f.endDate != "" {
		if f.end, err = time.Parse("2006-01-02", f.endDate); err != nil {
			return fmt.Errorf("invalid --end date %q: expected YYYY-MM-DD", f.endDate)
		}
	}
	return nil
}

func (f *filters) toFilterFunc() render.FilterFunc {
	return func(row models.Row) bool {
		if f.startDate != "" {
			if date, ok := rowDate(row); ok && date.Before(f.start) {
				return false
			}
		}
		if f.endDate != "" {
			if date, ok := rowDate(row); ok && date.After(f.end) {
				return false
			}
		}
		if f.minAmount != 0 {
			if amount, ok := rowAmount(row); ok && amount.LessThan(decimal.NewFromFloat(f.minAmount)) {
				return false
			}
		}
		if f.maxAmount != 0 {
			if amount, ok := rowAmount(row); ok && amount.GreaterThan(decimal.NewFromFloat(f.maxAmount)) {
				return false
			}
		}
		if f.status != "" {
			if v, ok := row[models.FieldStatus]; ok {
				status, _ := v.Text()
				if status != strings.ToLower(f.status) {
					return false
				}
			}
		}
		return true
	}
}

func rowDate(row models.Row) (time.Time, bool) {
	v, ok := row[models.FieldTransactionDate]
	if !ok {
		return time.Time{}, false
	}
	return v.Date()
}

func rowAmount(row models.Row) (decimal.Decimal, bool) {
	v, ok := row[models.FieldAmount]
	if !ok {
		return decimal.Decimal{}, false
	}
	return v.Decimal()
}

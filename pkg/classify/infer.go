package classify

import (
	"strings"

	"github.com/tabnorm/tabnorm/pkg/models"
)

// InferenceError reports that the sample row did not yield every required
// field.
type InferenceError struct {
	Missing []models.Field
}

func (e *InferenceError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return "could not infer columns for: " + strings.Join(names, ", ")
}

// assignment is the classifier state carried between passes. Passes never
// mutate their input; assign returns a fresh copy so each pass stays
// independently testable.
type assignment struct {
	mapping models.ColumnMapping
	used    map[models.Field]bool
}

func newAssignment() assignment {
	return assignment{
		mapping: models.ColumnMapping{},
		used:    map[models.Field]bool{},
	}
}

func (a assignment) assign(col int, f models.Field) assignment {
	next := assignment{
		mapping: make(models.ColumnMapping, len(a.mapping)+1),
		used:    make(map[models.Field]bool, len(a.used)+1),
	}
	for k, v := range a.mapping {
		next.mapping[k] = v
	}
	for k, v := range a.used {
		next.used[k] = v
	}
	next.mapping[col] = f
	next.used[f] = true
	return next
}

func (a assignment) has(col int) bool {
	_, ok := a.mapping[col]
	return ok
}

// Infer builds a column mapping from the first data row of a headerless
// statement. Three passes run left to right; a contested field always goes
// to the leftmost matching column and is never reassigned.
func Infer(row []string) (models.ColumnMapping, error) {
	a := newAssignment()
	a = passPatterns(row, a)
	a = passAmount(row, a)
	a = passFallback(row, a)

	var missing []models.Field
	for _, f := range models.Required {
		if !a.used[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &InferenceError{Missing: missing}
	}
	return a.mapping, nil
}

// passPatterns claims the unambiguous shapes: date first, then currency
// code, then status, in that priority order per column.
func passPatterns(row []string, a assignment) assignment {
	for i, value := range row {
		if a.has(i) {
			continue
		}
		switch {
		case IsDate(value) && !a.used[models.FieldTransactionDate]:
			a = a.assign(i, models.FieldTransactionDate)
		case IsCurrencyCode(value) && !a.used[models.FieldCurrency]:
			a = a.assign(i, models.FieldCurrency)
		case IsStatus(value) && !a.used[models.FieldStatus]:
			a = a.assign(i, models.FieldStatus)
		}
	}
	return a
}

// passAmount claims the first remaining column that parses as an amount.
func passAmount(row []string, a assignment) assignment {
	for i, value := range row {
		if a.has(i) {
			continue
		}
		if IsAmount(value) && !a.used[models.FieldAmount] {
			a = a.assign(i, models.FieldAmount)
		}
	}
	return a
}

// passFallback assigns the first leftover column as description and any
// further leftovers as unknown.
func passFallback(row []string, a assignment) assignment {
	for i := range row {
		if a.has(i) {
			continue
		}
		if !a.used[models.FieldDescription] {
			a = a.assign(i, models.FieldDescription)
		} else {
			a = a.assign(i, models.FieldUnknown)
		}
	}
	return a
}

package models

// Field is a semantic column name. Headerless statements resolve their
// columns against this closed set; headered statements may carry arbitrary
// snake_case names alongside it.
type Field string

const (
	FieldTransactionDate Field = "transaction_date"
	FieldAmount          Field = "amount"
	FieldCurrency        Field = "currency"
	FieldStatus          Field = "status"
	FieldDescription     Field = "description"
	FieldUnknown         Field = "unknown"
)

// Required lists the fields a headerless statement must resolve before it
// can be processed.
var Required = []Field{
	FieldTransactionDate,
	FieldDescription,
	FieldAmount,
	FieldCurrency,
	FieldStatus,
}

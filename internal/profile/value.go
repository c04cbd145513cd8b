package profile

import (
	"time"

	"github.com/shopspring/decimal"
)

// Value is a tagged union over the inferred semantic types. Once a column's
// type is known, callers convert raw field strings through Classify and get
// compile-time exhaustiveness over the small fixed set of kinds instead of
// re-parsing strings everywhere.
type Value struct {
	kind Type
	raw  string

	num decimal.Decimal
	ts  time.Time
	b   bool
}

// Classify converts one raw field string into a Value of the column's
// inferred type. When the raw string does not actually parse as that type
// (profiles are statistical, individual cells can diverge) the value degrades
// to text, keeping the raw content intact.
func Classify(raw string, t Type) Value {
	v := Value{kind: TypeText, raw: raw}
	switch t {
	case TypeNumber:
		if d, ok := parseNumber(raw); ok {
			v.kind = TypeNumber
			v.num = d
		}
	case TypeDate:
		if ts, ok := parseDate(raw); ok {
			v.kind = TypeDate
			v.ts = ts
		}
	case TypeBoolean:
		if b, ok := parseBool(raw); ok {
			v.kind = TypeBoolean
			v.b = b
		}
	case TypeEmail:
		if isEmail(raw) {
			v.kind = TypeEmail
		}
	case TypeURL:
		if isURL(raw) {
			v.kind = TypeURL
		}
	}
	return v
}

// Kind reports the value's resolved type.
func (v Value) Kind() Type { return v.kind }

// String returns the original raw content; it is valid for every kind.
func (v Value) String() string { return v.raw }

// Number returns the decimal value; ok is false unless Kind is TypeNumber.
func (v Value) Number() (decimal.Decimal, bool) {
	return v.num, v.kind == TypeNumber
}

// Time returns the parsed date; ok is false unless Kind is TypeDate.
func (v Value) Time() (time.Time, bool) {
	return v.ts, v.kind == TypeDate
}

// Bool returns the boolean value; ok is false unless Kind is TypeBoolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == TypeBoolean
}

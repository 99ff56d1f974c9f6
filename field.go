package citybook

import (
	"fmt"
	"strconv"
	"strings"
)

// Field identifies one of the nine editable attributes of a City.
type Field uint8

const (
	FieldName Field = iota + 1
	FieldCountry
	FieldPopulation
	FieldRecordYear
	FieldLatitude
	FieldLongitude
	FieldMayorName
	FieldMayorAddress
	FieldHistory
)

// Fields lists every field in persisted column order.
var Fields = []Field{
	FieldName, FieldCountry, FieldPopulation, FieldRecordYear,
	FieldLatitude, FieldLongitude, FieldMayorName, FieldMayorAddress, FieldHistory,
}

// Kind is the value type a field accepts.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "invalid"
	}
}

var fieldNames = map[Field]string{
	FieldName:         "name",
	FieldCountry:      "country",
	FieldPopulation:   "population",
	FieldRecordYear:   "recordYear",
	FieldLatitude:     "latitude",
	FieldLongitude:    "longitude",
	FieldMayorName:    "mayorName",
	FieldMayorAddress: "mayorAddress",
	FieldHistory:      "history",
}

// fieldsByLowerName is keyed by the lowercased field name so that
// "recordyear" and "recordYear" both resolve.
var fieldsByLowerName = func() map[string]Field {
	m := make(map[string]Field, len(fieldNames))
	for f, n := range fieldNames {
		m[toLower(n)] = f
	}
	return m
}()

// ParseField resolves a field name (case-insensitive) to a Field.
func ParseField(name string) (Field, error) {
	if f, ok := fieldsByLowerName[toLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidField, name)
}

// String returns the field's persisted/command name.
func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Field(%d)", uint8(f))
}

// Kind returns the value kind the field accepts.
func (f Field) Kind() Kind {
	switch f {
	case FieldName, FieldCountry, FieldMayorName, FieldMayorAddress, FieldHistory:
		return KindString
	case FieldPopulation, FieldRecordYear:
		return KindInt
	case FieldLatitude, FieldLongitude:
		return KindFloat
	default:
		return KindInvalid
	}
}

// Value is a typed field value: exactly one of string, int or float64.
type Value struct {
	kind Kind
	s    string
	i    int
	f    float64
}

// StringValue wraps a string field value.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// IntValue wraps an integer field value.
func IntValue(i int) Value { return Value{kind: KindInt, i: i} }

// FloatValue wraps a float field value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// Kind reports which of the three variants v holds.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string variant.
func (v Value) Str() string { return v.s }

// Int returns the integer variant.
func (v Value) Int() int { return v.i }

// Float returns the float variant.
func (v Value) Float() float64 { return v.f }

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return "<invalid>"
	}
}

// ParseValue parses raw text into a Value of the field's kind.
func ParseValue(f Field, raw string) (Value, error) {
	switch f.Kind() {
	case KindString:
		return StringValue(raw), nil
	case KindInt:
		i, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w: %q is not an integer", f, ErrInvalidValue, raw)
		}
		return IntValue(i), nil
	case KindFloat:
		x, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w: %q is not a number", f, ErrInvalidValue, raw)
		}
		return FloatValue(x), nil
	default:
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidField, f)
	}
}

package citybook

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Entry-time range policy. The registry itself never enforces these;
// callers run Validate or ValidateField before Add and UpdateField.
const (
	MinRecordYear = 1900
	MaxRecordYear = 2024
	MinLatitude   = -90.0
	MaxLatitude   = 90.0
	MinLongitude  = -180.0
	MaxLongitude  = 180.0
)

// Validate checks every field of c against the entry-time policy and
// returns all violations joined, or nil.
func Validate(c City) error {
	var errs []error
	for _, f := range Fields {
		if err := ValidateField(f, c.Get(f)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateField checks a single value against the entry-time policy.
func ValidateField(f Field, v Value) error {
	if f.Kind() == KindInvalid {
		return fmt.Errorf("%w: %s", ErrInvalidField, f)
	}
	if v.Kind() != f.Kind() {
		return &ValidationError{Field: f, Reason: fmt.Sprintf("expected a %s value, got %s", f.Kind(), v.Kind())}
	}

	switch f {
	case FieldName, FieldCountry, FieldMayorName, FieldMayorAddress, FieldHistory:
		if strings.TrimSpace(v.Str()) == "" {
			return &ValidationError{Field: f, Reason: "must not be empty"}
		}
		if strings.ContainsAny(v.Str(), "\r\n") {
			return &ValidationError{Field: f, Reason: "must be a single line"}
		}
		if (f == FieldName || f == FieldCountry) && strings.TrimSpace(v.Str()) != v.Str() {
			return &ValidationError{Field: f, Reason: "must not start or end with whitespace"}
		}
		// Only history, the last column, may hold the delimiter.
		if f != FieldHistory && strings.Contains(v.Str(), Delimiter) {
			return &ValidationError{Field: f, Reason: fmt.Sprintf("must not contain %q", Delimiter)}
		}
	case FieldPopulation:
		if v.Int() < 0 {
			return &ValidationError{Field: f, Reason: "must not be negative"}
		}
	case FieldRecordYear:
		if v.Int() < MinRecordYear || v.Int() > MaxRecordYear {
			return &ValidationError{Field: f, Reason: fmt.Sprintf("must be between %d and %d", MinRecordYear, MaxRecordYear)}
		}
	case FieldLatitude:
		if !inRange(v.Float(), MinLatitude, MaxLatitude) {
			return &ValidationError{Field: f, Reason: fmt.Sprintf("must be between %g and %g", MinLatitude, MaxLatitude)}
		}
	case FieldLongitude:
		if !inRange(v.Float(), MinLongitude, MaxLongitude) {
			return &ValidationError{Field: f, Reason: fmt.Sprintf("must be between %g and %g", MinLongitude, MaxLongitude)}
		}
	}
	return nil
}

// inRange rejects NaN, which compares false against every bound.
func inRange(x, lo, hi float64) bool {
	return !math.IsNaN(x) && x >= lo && x <= hi
}

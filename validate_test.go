package citybook

import (
	"errors"
	"math"
	"testing"
)

func TestValidateAcceptsGoodCity(t *testing.T) {
	for _, c := range []City{newYork, london, parisFR, parisUS} {
		if err := Validate(c); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", c.Identity(), err)
		}
	}
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		name string
		f    Field
		v    Value
		ok   bool
	}{
		{"population zero", FieldPopulation, IntValue(0), true},
		{"population negative", FieldPopulation, IntValue(-1), false},
		{"year lower bound", FieldRecordYear, IntValue(1900), true},
		{"year upper bound", FieldRecordYear, IntValue(2024), true},
		{"year too early", FieldRecordYear, IntValue(1899), false},
		{"year too late", FieldRecordYear, IntValue(2025), false},
		{"latitude bound", FieldLatitude, FloatValue(-90), true},
		{"latitude out", FieldLatitude, FloatValue(90.5), false},
		{"latitude NaN", FieldLatitude, FloatValue(math.NaN()), false},
		{"longitude bound", FieldLongitude, FloatValue(180), true},
		{"longitude out", FieldLongitude, FloatValue(-181), false},
		{"name empty", FieldName, StringValue(""), false},
		{"country blank", FieldCountry, StringValue("   "), false},
		{"history multiline", FieldHistory, StringValue("a\nb"), false},
		{"history ok", FieldHistory, StringValue("Founded, then grew."), true},
		{"name padded", FieldName, StringValue("Paris "), false},
		{"country padded", FieldCountry, StringValue(" France"), false},
		{"mayor address inner space", FieldMayorAddress, StringValue(" City Hall "), true},
		{"name delimiter", FieldName, StringValue("Washington, D.C."), false},
		{"country delimiter", FieldCountry, StringValue("Korea, South"), false},
		{"mayor delimiter", FieldMayorName, StringValue("Adams, Eric"), false},
		{"address delimiter", FieldMayorAddress, StringValue("1 Main St, Springfield"), false},
		{"wrong kind", FieldPopulation, StringValue("10"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(tt.f, tt.v)
			if tt.ok && err != nil {
				t.Errorf("ValidateField(%v, %v) = %v, want nil", tt.f, tt.v, err)
			}
			if !tt.ok {
				var ve *ValidationError
				if !errors.As(err, &ve) || !errors.Is(err, ErrInvalidValue) {
					t.Errorf("ValidateField(%v, %v) = %v, want *ValidationError", tt.f, tt.v, err)
				}
			}
		})
	}

	if err := ValidateField(Field(77), IntValue(1)); !errors.Is(err, ErrInvalidField) {
		t.Errorf("ValidateField(unknown) = %v, want ErrInvalidField", err)
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	c := City{Name: "X", Population: -5, RecordYear: 1800, Latitude: 100}
	err := Validate(c)
	if err == nil {
		t.Fatal("Validate() = nil, want errors")
	}

	want := map[Field]bool{
		FieldCountry: true, FieldPopulation: true, FieldRecordYear: true, FieldLatitude: true,
		FieldMayorName: true, FieldMayorAddress: true, FieldHistory: true,
	}
	got := map[Field]bool{}
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ve *ValidationError
		if errors.As(e, &ve) {
			got[ve.Field] = true
		}
	}
	for f := range want {
		if !got[f] {
			t.Errorf("missing violation for %v in %v", f, err)
		}
	}
	if got[FieldName] || got[FieldLongitude] {
		t.Errorf("unexpected violations: %v", err)
	}
}

package citybook

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
)

// City is a single registered city record.
type City struct {
	Name         string  // Display and search key
	Country      string  // With Name, forms the record's identity
	Population   int     // Population count
	RecordYear   int     // Year the population was recorded
	Latitude     float64 // Latitude in degrees
	Longitude    float64 // Longitude in degrees
	MayorName    string
	MayorAddress string
	History      string
}

// Identity is the (name, country) pair that distinguishes otherwise
// similar records. Comparison is exact and case-sensitive.
type Identity struct {
	Name    string
	Country string
}

func (id Identity) String() string {
	return id.Name + " (" + id.Country + ")"
}

// Identity returns the record's (name, country) pair.
func (c City) Identity() Identity {
	return Identity{Name: c.Name, Country: c.Country}
}

// SameIdentity reports whether c and other share name and country.
// Other fields are ignored: two records that differ only in population
// are the same city for removal and update purposes.
func (c City) SameIdentity(other City) bool {
	return c.Identity() == other.Identity()
}

// Coordinate returns the city's position.
func (c City) Coordinate() Coordinate {
	return Coordinate{Latitude: c.Latitude, Longitude: c.Longitude}
}

// Set assigns value to field. It is a pure setter: range policy is the
// caller's job (see Validate). An unknown field or a value of the wrong
// kind leaves the record unchanged and returns ErrInvalidField.
func (c *City) Set(f Field, v Value) error {
	if f.Kind() == KindInvalid || v.Kind() != f.Kind() {
		return fmt.Errorf("%w: %s does not accept a %s value", ErrInvalidField, f, v.Kind())
	}
	switch f {
	case FieldName:
		c.Name = v.Str()
	case FieldCountry:
		c.Country = v.Str()
	case FieldMayorName:
		c.MayorName = v.Str()
	case FieldMayorAddress:
		c.MayorAddress = v.Str()
	case FieldHistory:
		c.History = v.Str()
	case FieldPopulation:
		c.Population = v.Int()
	case FieldRecordYear:
		c.RecordYear = v.Int()
	case FieldLatitude:
		c.Latitude = v.Float()
	case FieldLongitude:
		c.Longitude = v.Float()
	default:
		return fmt.Errorf("%w: %s", ErrInvalidField, f)
	}
	return nil
}

// Update is the name-keyed form of Set.
func (c *City) Update(fieldName string, v Value) error {
	f, err := ParseField(fieldName)
	if err != nil {
		return err
	}
	return c.Set(f, v)
}

// Get returns the current value of field, or a zero Value for an unknown field.
func (c City) Get(f Field) Value {
	switch f {
	case FieldName:
		return StringValue(c.Name)
	case FieldCountry:
		return StringValue(c.Country)
	case FieldMayorName:
		return StringValue(c.MayorName)
	case FieldMayorAddress:
		return StringValue(c.MayorAddress)
	case FieldHistory:
		return StringValue(c.History)
	case FieldPopulation:
		return IntValue(c.Population)
	case FieldRecordYear:
		return IntValue(c.RecordYear)
	case FieldLatitude:
		return FloatValue(c.Latitude)
	case FieldLongitude:
		return FloatValue(c.Longitude)
	default:
		return Value{}
	}
}

// Display writes the fixed human-readable rendering of the record.
func (c City) Display(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"City Name: %s\n"+
			"Country: %s\n"+
			"History: %s\n"+
			"Population: %d\n"+
			"Population Recorded in: %d\n"+
			"Mayor Name: %s\n"+
			"Mayor Address: %s\n"+
			"Coordinates: (%s, %s)\n",
		c.Name, c.Country, c.History, c.Population, c.RecordYear,
		c.MayorName, c.MayorAddress,
		FloatValue(c.Latitude), FloatValue(c.Longitude))
	return err
}

func (c City) String() string {
	var b strings.Builder
	_ = c.Display(&b)
	return b.String()
}

// toLower lowercases s. It is enough for the ASCII field names; city
// names go through nameKey.
func toLower(s string) string {
	return strings.ToLower(s)
}

// nameKey is the name index key: surrounding whitespace is dropped and the
// rest is Unicode case-folded, so "ΟΔΟΣ" and "οδος" share a key the same
// way strings.EqualFold would compare them.
func nameKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

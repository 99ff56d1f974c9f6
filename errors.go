package citybook

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no city matches a name or identity.
	ErrNotFound = errors.New("city not found")
	// ErrInvalidField is returned for an unknown field name or a value of the wrong kind.
	ErrInvalidField = errors.New("invalid field name")
	// ErrInvalidValue is returned when a value fails the entry-time range policy.
	ErrInvalidValue = errors.New("invalid value")
	// ErrStaleMatch is returned when a Match is used after the registry changed.
	ErrStaleMatch = errors.New("stale match: registry changed since lookup")
	// ErrMalformedLine is returned when a persisted line cannot be decoded.
	ErrMalformedLine = errors.New("malformed line")
)

// NotFoundError reports a name lookup with zero matches.
// Suggestions holds registered names within the configured edit distance.
type NotFoundError struct {
	Name        string
	Country     string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	q := e.Name
	if e.Country != "" {
		q += " (" + e.Country + ")"
	}
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("%s: %q, did you mean %s?", ErrNotFound, q, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("%s: %q", ErrNotFound, q)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AmbiguousError reports a name lookup that matched more than one city.
// The caller must pick one of Matches; the registry never chooses.
type AmbiguousError struct {
	Name    string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	countries := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		countries[i] = m.City.Country
	}
	return fmt.Sprintf("%q matches %d cities (%s)", e.Name, len(e.Matches), strings.Join(countries, ", "))
}

// Countries returns the country of every match, in registry order.
func (e *AmbiguousError) Countries() []string {
	out := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		out[i] = m.City.Country
	}
	return out
}

// ParseError describes a persisted line that could not be decoded.
type ParseError struct {
	Line int    // 1-based line number, 0 when decoding a single line
	Text string // the raw line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %v", e.Line, ErrMalformedLine, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrMalformedLine, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrMalformedLine, e.Err} }

// ValidationError reports a field value outside the entry-time policy.
type ValidationError struct {
	Field  Field
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidValue }

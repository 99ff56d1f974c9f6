package citybook

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Delimiter separates fields in a persisted line. It is never escaped.
const Delimiter = ","

// numFields is the number of positional tokens in a persisted line.
const numFields = 9

// EncodeLine renders c as one persisted line (without the trailing newline):
//
//	name,country,population,recordYear,latitude,longitude,mayorName,mayorAddress,history
//
// Text fields are written verbatim. A delimiter inside any field but
// history shifts every following token when the line is decoded, so only
// records for which Encodable returns nil round-trip without loss.
func EncodeLine(c City) string {
	return strings.Join([]string{
		c.Name,
		c.Country,
		strconv.Itoa(c.Population),
		strconv.Itoa(c.RecordYear),
		strconv.FormatFloat(c.Latitude, 'f', -1, 64),
		strconv.FormatFloat(c.Longitude, 'f', -1, 64),
		c.MayorName,
		c.MayorAddress,
		c.History,
	}, Delimiter)
}

// DecodeLine parses one persisted line.
//
// Tokens are read positionally; history, being last, takes the rest of the
// line. Lines with fewer than nine tokens or with non-numeric text in a
// numeric slot are rejected with a *ParseError rather than producing a
// partially filled record.
func DecodeLine(line string) (City, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.SplitN(line, Delimiter, numFields)
	if len(fields) != numFields {
		return City{}, &ParseError{Text: line, Err: fmt.Errorf("got %d fields, want %d", len(fields), numFields)}
	}

	pop, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return City{}, &ParseError{Text: line, Err: fmt.Errorf("population: %w", err)}
	}
	year, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return City{}, &ParseError{Text: line, Err: fmt.Errorf("recordYear: %w", err)}
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return City{}, &ParseError{Text: line, Err: fmt.Errorf("latitude: %w", err)}
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(fields[5]), 64)
	if err != nil {
		return City{}, &ParseError{Text: line, Err: fmt.Errorf("longitude: %w", err)}
	}

	return City{
		Name:         fields[0],
		Country:      fields[1],
		Population:   pop,
		RecordYear:   year,
		Latitude:     lat,
		Longitude:    lng,
		MayorName:    fields[6],
		MayorAddress: fields[7],
		History:      fields[8],
	}, nil
}

// Encodable reports whether c survives EncodeLine followed by DecodeLine
// unchanged. It returns the offending fields joined, or nil.
func Encodable(c City) error {
	var errs []error
	for _, f := range Fields {
		if f.Kind() != KindString {
			continue
		}
		s := c.Get(f).Str()
		if strings.ContainsAny(s, "\r\n") {
			errs = append(errs, fmt.Errorf("%s: contains a line break", f))
		}
		if f != FieldHistory && strings.Contains(s, Delimiter) {
			errs = append(errs, fmt.Errorf("%s: contains the delimiter %q", f, Delimiter))
		}
	}
	return errors.Join(errs...)
}

// Encoder writes cities as newline-terminated lines.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder returns an Encoder writing to w. Call Flush when done.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode writes one line for c.
func (e *Encoder) Encode(c City) error {
	if _, err := e.w.WriteString(EncodeLine(c)); err != nil {
		return err
	}
	return e.w.WriteByte('\n')
}

// Flush writes any buffered data to the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

// Decoder reads cities line by line.
type Decoder struct {
	s    *bufio.Scanner
	line int
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanLines)
	// History can be long; allow lines up to 1 MiB.
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Decoder{s: s}
}

// Decode returns the next city. Blank lines are skipped. A malformed line
// yields a *ParseError carrying its line number; decoding may continue
// with the next call. io.EOF is returned at the end of input.
func (d *Decoder) Decode() (City, error) {
	for d.s.Scan() {
		d.line++
		text := d.s.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		c, err := DecodeLine(text)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = d.line
			}
			return City{}, err
		}
		return c, nil
	}
	if err := d.s.Err(); err != nil {
		return City{}, fmt.Errorf("reading line %d: %w", d.line+1, err)
	}
	return City{}, io.EOF
}

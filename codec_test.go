package citybook

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestEncodeLine(t *testing.T) {
	want := "New York,USA,8419600,2021,40.7128,-74.006,Eric Adams,City Hall NYC,Founded in 1624."
	if got := EncodeLine(newYork); got != want {
		t.Errorf("EncodeLine() =\n%q\nwant\n%q", got, want)
	}
}

func TestDecodeLine(t *testing.T) {
	got, err := DecodeLine("London,UK,8982000,2021,51.5074,-0.1278,Sadiq Khan,City Hall London,Founded by Romans.\n")
	if err != nil {
		t.Fatalf("DecodeLine() error: %v", err)
	}
	if got != london {
		t.Errorf("DecodeLine() = %+v, want %+v", got, london)
	}
}

func TestDecodeLineHistoryKeepsDelimiters(t *testing.T) {
	c := parisUS
	c.History = "Founded in 1844, county seat of Lamar County."
	got, err := DecodeLine(EncodeLine(c))
	if err != nil {
		t.Fatalf("DecodeLine() error: %v", err)
	}
	if got.History != c.History {
		t.Errorf("History = %q, want %q", got.History, c.History)
	}
}

func TestDecodeLineToleratesNumericWhitespace(t *testing.T) {
	got, err := DecodeLine("Oslo,Norway, 709037 , 2022 , 59.9139 , 10.7522 ,Anne Lindboe,Oslo Radhus,Founded around 1040.")
	if err != nil {
		t.Fatalf("DecodeLine() error: %v", err)
	}
	if got.Population != 709037 || got.RecordYear != 2022 || got.Latitude != 59.9139 || got.Longitude != 10.7522 {
		t.Errorf("DecodeLine() numeric fields = %+v", got)
	}
}

func TestDecodeLineMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"too few fields", "Paris,France,2161000,2019"},
		{"non-numeric population", "Paris,France,many,2019,48.8566,2.3522,Anne Hidalgo,Hotel de Ville,Old."},
		{"non-numeric year", "Paris,France,2161000,last year,48.8566,2.3522,Anne Hidalgo,Hotel de Ville,Old."},
		{"non-numeric latitude", "Paris,France,2161000,2019,north,2.3522,Anne Hidalgo,Hotel de Ville,Old."},
		{"non-numeric longitude", "Paris,France,2161000,2019,48.8566,,Anne Hidalgo,Hotel de Ville,Old."},
		// A delimiter in the name shifts every following token.
		{"delimiter in name", "Washington, D.C.,USA,689545,2020,38.9072,-77.0369,Muriel Bowser,Wilson Building,Founded 1790."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLine(tt.line)
			if !errors.Is(err, ErrMalformedLine) {
				t.Fatalf("DecodeLine(%q) error = %v, want ErrMalformedLine", tt.line, err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
		})
	}
}

func TestEncodable(t *testing.T) {
	if err := Encodable(newYork); err != nil {
		t.Errorf("Encodable(newYork) = %v, want nil", err)
	}

	c := newYork
	c.History = "Founded in 1624, as New Amsterdam."
	if err := Encodable(c); err != nil {
		t.Errorf("delimiter in history: Encodable() = %v, want nil", err)
	}

	c.MayorAddress = "City Hall, NYC"
	if err := Encodable(c); err == nil || !strings.Contains(err.Error(), "mayorAddress") {
		t.Errorf("delimiter in address: Encodable() = %v, want mayorAddress error", err)
	}

	c = newYork
	c.History = "line one\nline two"
	if err := Encodable(c); err == nil {
		t.Error("line break in history: Encodable() = nil, want error")
	}
}

func TestDecoderSkipsBlankLinesAndNumbersErrors(t *testing.T) {
	input := EncodeLine(newYork) + "\n\n" +
		"broken line\n" +
		EncodeLine(london) + "\n"

	dec := NewDecoder(strings.NewReader(input))

	c, err := dec.Decode()
	if err != nil || c != newYork {
		t.Fatalf("first Decode() = %+v, %v", c, err)
	}

	_, err = dec.Decode()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("second Decode() error = %v, want *ParseError", err)
	}
	if pe.Line != 3 {
		t.Errorf("ParseError.Line = %d, want 3", pe.Line)
	}

	c, err = dec.Decode()
	if err != nil || c != london {
		t.Fatalf("third Decode() = %+v, %v", c, err)
	}

	if _, err = dec.Decode(); err != io.EOF {
		t.Errorf("final Decode() error = %v, want io.EOF", err)
	}
}

func TestEncoderWritesOneLinePerCity(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, c := range []City{newYork, parisFR, london} {
		if err := enc.Encode(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Flush(); err != nil {
		t.Fatal(err)
	}
	want := EncodeLine(newYork) + "\n" + EncodeLine(parisFR) + "\n" + EncodeLine(london) + "\n"
	if buf.String() != want {
		t.Errorf("encoded =\n%s\nwant\n%s", buf.String(), want)
	}
}

// textGen draws free text without the delimiter or line breaks.
func textGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9 .;:'()\-]{1,30}`)
}

func TestCodecRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := City{
			Name:         textGen().Draw(t, "name"),
			Country:      textGen().Draw(t, "country"),
			Population:   rapid.IntRange(0, 40_000_000).Draw(t, "population"),
			RecordYear:   rapid.IntRange(MinRecordYear, MaxRecordYear).Draw(t, "year"),
			Latitude:     rapid.Float64Range(-90, 90).Draw(t, "lat"),
			Longitude:    rapid.Float64Range(-180, 180).Draw(t, "lon"),
			MayorName:    textGen().Draw(t, "mayor"),
			MayorAddress: textGen().Draw(t, "address"),
			History:      rapid.StringMatching(`[A-Za-z0-9 ,.;]{1,60}`).Draw(t, "history"),
		}
		got, err := DecodeLine(EncodeLine(c))
		if err != nil {
			t.Fatalf("DecodeLine(EncodeLine(%+v)) error: %v", c, err)
		}
		if got != c {
			t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", got, c)
		}
	})
}

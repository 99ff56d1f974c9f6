package citybook

import (
	"compress/bzip2"
	"compress/gzip"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

//go:embed seed/cities.txt
var seedData embed.FS

const seedFile = "seed/cities.txt"

// Store reads and writes the flat city file.
//
// Files ending in .gz are gzip-compressed on read and write. Files ending
// in .bz2 are decompressed on read; they cannot be written.
type Store struct {
	path   string
	config *Config
	log    *slog.Logger
}

// NewStore creates a Store for the configured data file.
func NewStore(opts ...Option) *Store {
	cfg := newConfig(opts)
	return &Store{
		path:   cfg.DataFile,
		config: cfg,
		log:    cfg.Logger.With("component", "store", "path", cfg.DataFile),
	}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string { return s.path }

// Load reads every city from the data file in file order.
//
// A file that cannot be opened is not an error: Load returns an empty
// collection so that a first run starts with an empty registry (or with the
// embedded sample cities when seeding is enabled). Malformed lines are
// logged and skipped; the remaining records are still returned. A read
// failure part way through the file (an over-long line, a corrupt gzip
// stream) is returned as an error with no records, since saving the partial
// result would drop everything after it.
func (s *Store) Load() ([]City, error) {
	r, cleanup, err := s.openForRead()
	if err != nil {
		if !s.config.Seed {
			s.log.Info("no city file, starting empty", "err", err)
			return []City{}, nil
		}
		s.log.Info("no city file, loading embedded seed data", "err", err)
		fh, seedErr := seedData.Open(seedFile)
		if seedErr != nil {
			return nil, fmt.Errorf("opening seed data: %w", seedErr)
		}
		r, cleanup = fh, fh.Close
	}
	defer cleanup()

	cities := []City{}
	skipped := 0
	dec := NewDecoder(r)
	for {
		c, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				return nil, fmt.Errorf("loading %s: %w", s.path, err)
			}
			skipped++
			s.log.Warn("skipping malformed line", "line", pe.Line, "err", pe.Err)
			continue
		}
		cities = append(cities, c)
	}
	s.log.Debug("cities loaded", "count", len(cities), "skipped", skipped)
	return cities, nil
}

// openForRead opens the data file, decompressing it if needed.
func (s *Store) openForRead() (io.Reader, func() error, error) {
	fh, err := os.Open(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", s.path, err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".gz":
		gz, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gz, func() error {
			gz.Close()
			return fh.Close()
		}, nil
	case ".bz2":
		return bzip2.NewReader(fh), fh.Close, nil
	}
	return fh, fh.Close, nil
}

// Save overwrites the data file with one line per city, in order.
//
// The file is truncated and rewritten in place; a crash mid-write can
// leave it partially written. Records whose text would not survive a
// reload are still written, and logged as warnings.
func (s *Store) Save(cities []City) error {
	ext := strings.ToLower(filepath.Ext(s.path))
	if ext == ".bz2" {
		return fmt.Errorf("saving %s: bzip2 files are read-only", s.path)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	out, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", s.path, err)
	}

	// Track success so Close errors on the success path are not lost.
	success := false
	defer func() {
		if !success {
			out.Close()
		}
	}()

	var w io.Writer = out
	var gz *gzip.Writer
	if ext == ".gz" {
		gz = gzip.NewWriter(out)
		w = gz
	}

	enc := NewEncoder(w)
	for i, c := range cities {
		if err := Encodable(c); err != nil {
			s.log.Warn("city will not round-trip", "index", i, "name", c.Name, "country", c.Country, "err", err)
		}
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("writing file %s: %w", s.path, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("writing file %s: %w", s.path, err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("writing file %s: %w", s.path, err)
		}
	}

	success = true
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", s.path, err)
	}
	s.log.Debug("cities saved", "count", len(cities))
	return nil
}

// SeedCities returns the embedded sample cities.
func SeedCities() ([]City, error) {
	b, err := fs.ReadFile(seedData, seedFile)
	if err != nil {
		return nil, fmt.Errorf("reading seed data: %w", err)
	}
	var cities []City
	dec := NewDecoder(strings.NewReader(string(b)))
	for {
		c, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return cities, nil
		}
		if err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
}

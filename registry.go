package citybook

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/golang/geo/s2"
)

// Registry owns an ordered collection of cities for one session.
//
// Insertion order is preserved and names need not be unique: two cities
// with the same name in different countries are distinct records. Lookups
// by name are case-insensitive and may return several matches; the
// registry never chooses between them on the caller's behalf.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	cities    []City
	nameIndex map[string][]int // inverted index: folded name → city indices
	gen       uint64           // bumped whenever indices shift
	config    *Config
	log       *slog.Logger
}

// Match is a read-only view of a registered city returned by a lookup.
// Index addresses the live record, so Remove and UpdateMatch act on it
// without a second lookup. A Match stays usable until a record is removed
// from the registry; after that it is stale.
type Match struct {
	Index int
	City  City
	gen   uint64
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	cfg := newConfig(opts)
	r := &Registry{
		config: cfg,
		log:    cfg.Logger.With("component", "registry"),
	}
	r.reindex()
	return r
}

// NewRegistryFrom creates a registry holding a copy of cities, in order.
func NewRegistryFrom(cities []City, opts ...Option) *Registry {
	r := NewRegistry(opts...)
	r.cities = append(make([]City, 0, len(cities)), cities...)
	r.reindex()
	return r
}

// reindex rebuilds the name index from scratch.
func (r *Registry) reindex() {
	r.nameIndex = make(map[string][]int, len(r.cities))
	for i, c := range r.cities {
		key := nameKey(c.Name)
		r.nameIndex[key] = append(r.nameIndex[key], i)
	}
}

// Len returns the number of registered cities.
func (r *Registry) Len() int { return len(r.cities) }

// Cities returns a copy of every record in registry order.
func (r *Registry) Cities() []City {
	return append([]City(nil), r.cities...)
}

// At returns a copy of the record at index i.
func (r *Registry) At(i int) (City, bool) {
	if i < 0 || i >= len(r.cities) {
		return City{}, false
	}
	return r.cities[i], true
}

// Add appends c to the end of the registry. The caller is responsible for
// validating c first; Add always succeeds.
func (r *Registry) Add(c City) {
	r.cities = append(r.cities, c)
	key := nameKey(c.Name)
	r.nameIndex[key] = append(r.nameIndex[key], len(r.cities)-1)
	r.log.Debug("city added", "name", c.Name, "country", c.Country, "index", len(r.cities)-1)
}

// FindByName returns every city whose name equals name, ignoring case and
// surrounding whitespace, in registry order.
func (r *Registry) FindByName(name string) []Match {
	indices := r.nameIndex[nameKey(name)]
	matches := make([]Match, 0, len(indices))
	for _, idx := range indices {
		matches = append(matches, r.match(idx))
	}
	return matches
}

func (r *Registry) match(idx int) Match {
	return Match{Index: idx, City: r.cities[idx], gen: r.gen}
}

// Resolve narrows a name lookup to a single city. When country is non-empty
// only matches in that country (case-insensitive) are kept.
//
// It returns a *NotFoundError when nothing matches and an *AmbiguousError
// listing every candidate when more than one distinct city remains.
func (r *Registry) Resolve(name, country string) (Match, error) {
	all := r.FindByName(name)
	if len(all) == 0 {
		return Match{}, &NotFoundError{Name: name, Country: country, Suggestions: r.Suggest(name)}
	}

	matches := all
	if country = strings.TrimSpace(country); country != "" {
		matches = matches[:0:0]
		for _, m := range all {
			if strings.EqualFold(m.City.Country, country) {
				matches = append(matches, m)
			}
		}
		if len(matches) == 0 {
			return Match{}, &NotFoundError{Name: name, Country: country}
		}
	}

	// Records sharing one exact identity are the same city.
	for _, m := range matches[1:] {
		if !m.City.SameIdentity(matches[0].City) {
			return Match{}, &AmbiguousError{Name: name, Matches: matches}
		}
	}
	return matches[0], nil
}

// RemoveMatch deletes every record whose identity equals id.
// It returns a *NotFoundError and leaves the registry unchanged when
// nothing has that identity.
func (r *Registry) RemoveMatch(id Identity) error {
	kept := r.cities[:0:0]
	for _, c := range r.cities {
		if c.Identity() != id {
			kept = append(kept, c)
		}
	}
	removed := len(r.cities) - len(kept)
	if removed == 0 {
		return &NotFoundError{Name: id.Name, Country: id.Country}
	}
	r.cities = kept
	r.gen++
	r.reindex()
	r.log.Debug("city removed", "name", id.Name, "country", id.Country, "count", removed)
	return nil
}

// Remove deletes the record m points at.
func (r *Registry) Remove(m Match) error {
	if err := r.checkMatch(m); err != nil {
		return err
	}
	r.cities = append(r.cities[:m.Index], r.cities[m.Index+1:]...)
	r.gen++
	r.reindex()
	r.log.Debug("city removed", "name", m.City.Name, "country", m.City.Country, "index", m.Index)
	return nil
}

// UpdateField sets field on the first record with identity id.
func (r *Registry) UpdateField(id Identity, f Field, v Value) error {
	for i := range r.cities {
		if r.cities[i].Identity() == id {
			return r.set(i, f, v)
		}
	}
	return &NotFoundError{Name: id.Name, Country: id.Country}
}

// UpdateMatch sets field on the record m points at.
func (r *Registry) UpdateMatch(m Match, f Field, v Value) error {
	if err := r.checkMatch(m); err != nil {
		return err
	}
	return r.set(m.Index, f, v)
}

func (r *Registry) set(i int, f Field, v Value) error {
	c := &r.cities[i]
	oldName := c.Name
	if err := c.Set(f, v); err != nil {
		return err
	}
	if f == FieldName && c.Name != oldName {
		r.reindex()
	}
	r.log.Debug("city updated", "name", c.Name, "country", c.Country, "field", f.String(), "value", v.String())
	return nil
}

// checkMatch rejects matches taken before a removal shifted indices.
func (r *Registry) checkMatch(m Match) error {
	if m.gen != r.gen || m.Index < 0 || m.Index >= len(r.cities) {
		return ErrStaleMatch
	}
	return nil
}

// Suggest returns registered names within the configured edit distance of
// name, closest first. Exact (case-insensitive) matches are not suggested.
func (r *Registry) Suggest(name string) []string {
	maxDist := r.config.SuggestDistance
	query := nameKey(name)
	if maxDist == 0 || query == "" {
		return nil
	}

	type candidate struct {
		name  string
		dist  int
		first int
	}
	var candidates []candidate
	for key, indices := range r.nameIndex {
		if key == query {
			continue
		}
		d := levenshtein.ComputeDistance(query, key)
		if d <= maxDist {
			candidates = append(candidates, candidate{name: r.cities[indices[0]].Name, dist: d, first: indices[0]})
		}
	}

	// Map iteration order is random; sort by distance then registry order.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].first < candidates[j].first
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

// Nearest returns the registered city closest to coord and its
// great-circle distance in km. ok is false when the registry holds no city
// with a valid coordinate or coord itself is invalid.
func (r *Registry) Nearest(coord Coordinate) (m Match, km float64, ok bool) {
	if !coord.Valid() {
		return Match{}, 0, false
	}
	query := coord.LatLng()

	best := -1
	var bestAngle float64
	for i, c := range r.cities {
		cc := c.Coordinate()
		if !cc.Valid() {
			continue
		}
		angle := query.Distance(s2.LatLngFromDegrees(cc.Latitude, cc.Longitude)).Radians()
		if best < 0 || angle < bestAngle {
			best, bestAngle = i, angle
		}
	}
	if best < 0 {
		return Match{}, 0, false
	}
	return r.match(best), GreatCircleDistanceKm(coord, r.cities[best].Coordinate()), true
}

// Distance returns the great-circle distance in km between two matches.
func (r *Registry) Distance(a, b Match) float64 {
	return Distance(a.City, b.City)
}

package citybook

import (
	"math"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used by the spherical model.
// Results carry the ~0.3% error inherent to treating the Earth as a sphere.
const EarthRadiusKm = 6371.0

// MaxDistanceKm is the distance between two antipodal points.
const MaxDistanceKm = math.Pi * EarthRadiusKm

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// LatLng converts the coordinate to an s2.LatLng.
func (c Coordinate) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude)
}

// Valid reports whether latitude is within [-90, 90] and longitude within
// [-180, 180]. NaN and infinite values are invalid.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.LatLng().IsValid()
}

// Geohash returns the geohash cell of the coordinate truncated to precision
// characters (1-12).
func (c Coordinate) Geohash(precision int) string {
	h := geohash.Encode(c.Latitude, c.Longitude)
	if precision > 0 && precision < len(h) {
		return h[:precision]
	}
	return h
}

// GreatCircleDistanceKm returns the great-circle distance between a and b
// using the spherical law of cosines.
func GreatCircleDistanceKm(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1 := a.Latitude * math.Pi / 180.0
	lon1 := a.Longitude * math.Pi / 180.0
	lat2 := b.Latitude * math.Pi / 180.0
	lon2 := b.Longitude * math.Pi / 180.0

	cosD := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon1-lon2)

	// Rounding can push cosD just outside [-1, 1] for identical or
	// antipodal points; acos would then return NaN.
	cosD = math.Max(-1, math.Min(1, cosD))

	return math.Acos(cosD) * EarthRadiusKm
}

// Distance returns the great-circle distance in km between two cities.
func Distance(a, b City) float64 {
	return GreatCircleDistanceKm(a.Coordinate(), b.Coordinate())
}

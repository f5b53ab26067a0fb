// Package geo turns proximity parameters into coordinate-range predicates.
//
// Radius searches are approximated by an axis-aligned box around the center:
// corners of the box lie farther than the radius, so callers may receive
// matches up to about sqrt(2) times the nominal distance.
package geo

import "math"

// KmPerDegree is the length of one degree of latitude used by the approximation.
const KmPerDegree = 111.0

// Bounds is an inclusive latitude/longitude range.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// RadiusPredicate returns the box covering a circle of radiusKm around (lat, lon).
// Near the poles the longitude delta grows without bound and the box spans all longitudes.
func RadiusPredicate(lat, lon, radiusKm float64) Bounds {
	latDelta := radiusKm / KmPerDegree
	lonDelta := radiusKm / (KmPerDegree * math.Cos(lat*math.Pi/180))
	if math.IsNaN(lonDelta) || math.IsInf(lonDelta, 0) {
		lonDelta = math.Inf(1)
	}
	lonDelta = math.Abs(lonDelta)
	return Bounds{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLon: lon - lonDelta,
		MaxLon: lon + lonDelta,
	}
}

// BoxPredicate returns the bounds exactly as given.
func BoxPredicate(minLat, maxLat, minLon, maxLon float64) Bounds {
	return Bounds{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}
}

// Contains reports whether the point lies inside the bounds, edges included.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Query holds the optional geo parameters of a search.
type Query struct {
	Lat, Lon, RadiusKm             *float64
	MinLat, MaxLat, MinLon, MaxLon *float64
}

// Resolve picks the predicate for q. A fully specified radius wins over a box;
// a box is used only when all four bounds are present. ok is false when neither applies.
func (q Query) Resolve() (b Bounds, ok bool) {
	if q.RadiusKm != nil && q.Lat != nil && q.Lon != nil {
		return RadiusPredicate(*q.Lat, *q.Lon, *q.RadiusKm), true
	}
	if q.MinLat != nil && q.MaxLat != nil && q.MinLon != nil && q.MaxLon != nil {
		return BoxPredicate(*q.MinLat, *q.MaxLat, *q.MinLon, *q.MaxLon), true
	}
	return Bounds{}, false
}

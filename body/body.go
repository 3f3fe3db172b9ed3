// Package body defines the celestial body collaborators the measurement
// engine consumes: a spherical body with a terrain-height oracle, and the
// conversions between geographic and cartesian coordinates.
package body

// LngLat is a geographic coordinate in radians. Longitude is in [-π, π],
// latitude in [-π/2, π/2].
type LngLat struct {
	Lng float64
	Lat float64
}

// Body is the terrain oracle. Height must be pure, synchronous and
// deterministic; it returns meters above the reference sphere. A NaN height
// marks the queried location as invalid.
type Body interface {
	Radius() float64
	Height(lng, lat float64) float64
}

// Sphere is a Body backed by a height function. A nil height function means
// a perfectly smooth sphere.
type Sphere struct {
	R      float64
	Relief func(lng, lat float64) float64
}

func (s Sphere) Radius() float64 { return s.R }

func (s Sphere) Height(lng, lat float64) float64 {
	if s.Relief == nil {
		return 0
	}
	return s.Relief(lng, lat)
}

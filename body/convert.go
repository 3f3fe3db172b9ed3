package body

import (
	"math"

	"github.com/golang/geo/r3"
)

// Coordinate convention: y is the polar axis, z points at (lng 0, lat 0) and
// x at (lng π/2, lat 0). Ellipsoidal bodies are approximated by a sphere of
// the equatorial radius.

// ToCartesian places a geographic coordinate at radius + height.
func ToCartesian(lng, lat, radius, height float64) r3.Vector {
	d := radius + height
	return r3.Vector{
		X: d * math.Cos(lat) * math.Sin(lng),
		Y: d * math.Sin(lat),
		Z: d * math.Cos(lat) * math.Cos(lng),
	}
}

// ToLngLat is the inverse of ToCartesian, dropping the height.
func ToLngLat(p r3.Vector) LngLat {
	n := p.Norm()
	if n == 0 {
		return LngLat{}
	}
	sin := p.Y / n
	// Clamp against rounding before the asin.
	if sin > 1 {
		sin = 1
	} else if sin < -1 {
		sin = -1
	}
	return LngLat{
		Lng: math.Atan2(p.X, p.Z),
		Lat: math.Asin(sin),
	}
}

// LngLatToNormal returns the unit surface normal at a geographic coordinate.
func LngLatToNormal(lng, lat float64) r3.Vector {
	return r3.Vector{
		X: math.Cos(lat) * math.Sin(lng),
		Y: math.Sin(lat),
		Z: math.Cos(lat) * math.Cos(lng),
	}
}

// Finite reports whether all components are finite numbers.
func Finite(p r3.Vector) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

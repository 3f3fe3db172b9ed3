package measure

import (
	"math"

	"github.com/golang/geo/r3"
)

// FitPlane fits the least-squares plane z = a*x + b*y + c through the given
// positions, taken relative to the centroid, by solving the 3x3 normal
// equations. It returns the unit plane normal and the constant offset c.
// ok is false when the system is singular, which happens for collinear
// positions.
//
// The fit regresses the global z coordinate on x and y, so it degrades for
// point clouds whose plane is nearly parallel to the z axis. The dip and
// strike tool shares this behavior.
func FitPlane(positions []r3.Vector, centroid r3.Vector) (normal r3.Vector, offset float64, ok bool) {
	var m [3][3]float64
	var v [3]float64

	for _, p := range positions {
		rel := p.Sub(centroid)
		m[0][0] += rel.X * rel.X
		m[0][1] += rel.X * rel.Y
		m[0][2] += rel.X
		m[1][0] += rel.X * rel.Y
		m[1][1] += rel.Y * rel.Y
		m[1][2] += rel.Y
		m[2][0] += rel.X
		m[2][1] += rel.Y
		m[2][2] += 1

		v[0] += rel.X * rel.Z
		v[1] += rel.Y * rel.Z
		v[2] += rel.Z
	}

	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if math.Abs(det) < 1e-12 {
		return r3.Vector{}, 0, false
	}

	inv := [3][3]float64{
		{(m[1][1]*m[2][2] - m[1][2]*m[2][1]) / det,
			(m[0][2]*m[2][1] - m[0][1]*m[2][2]) / det,
			(m[0][1]*m[1][2] - m[0][2]*m[1][1]) / det},
		{(m[1][2]*m[2][0] - m[1][0]*m[2][2]) / det,
			(m[0][0]*m[2][2] - m[0][2]*m[2][0]) / det,
			(m[0][2]*m[1][0] - m[0][0]*m[1][2]) / det},
		{(m[1][0]*m[2][1] - m[1][1]*m[2][0]) / det,
			(m[0][1]*m[2][0] - m[0][0]*m[2][1]) / det,
			(m[0][0]*m[1][1] - m[0][1]*m[1][0]) / det},
	}

	a := inv[0][0]*v[0] + inv[0][1]*v[1] + inv[0][2]*v[2]
	b := inv[1][0]*v[0] + inv[1][1]*v[1] + inv[1][2]*v[2]
	c := inv[2][0]*v[0] + inv[2][1]*v[1] + inv[2][2]*v[2]

	normal = r3.Vector{X: -a, Y: -b, Z: 1}.Normalize()
	return normal, c, true
}

package tools

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/cosmoscout/csp-measurement-tools/body"
	"github.com/cosmoscout/csp-measurement-tools/measure"
)

// DipAndStrike fits a plane through the tool's positions and measures its
// orientation relative to the local horizontal. Strike is the compass
// direction of the plane's level line in degrees, dip the steepest downward
// inclination. With fewer than three positions, or when the positions do not
// span a plane, ok is false.
func (d *DipStrike) DipAndStrike(b body.Body, set measure.Settings) (dip, strike float64, ok bool) {
	if len(d.Positions) < 3 {
		return 0, 0, false
	}

	points := make([]r3.Vector, len(d.Positions))
	centroid := r3.Vector{}
	for i, ll := range d.Positions {
		points[i] = heighted(b, ll, set.HeightScale)
		centroid = centroid.Add(points[i].Mul(1 / float64(len(d.Positions))))
	}

	normal, _, ok := measure.FitPlane(points, centroid)
	if !ok {
		return 0, 0, false
	}

	// The radial direction at the centroid is the local "up"; orient the
	// fitted normal to point out of the ground.
	ideal := centroid.Normalize()
	if ideal.Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}

	strikeDir := normal.Cross(ideal).Normalize()
	dipDir := ideal.Cross(strikeDir).Normalize()
	mip := normal.Cross(strikeDir).Normalize()

	dip = math.Acos(clampUnit(mip.Dot(dipDir))) * 180 / math.Pi

	north := r3.Vector{X: 0, Y: 1, Z: 0}
	strike = math.Acos(clampUnit(north.Dot(strikeDir))) * 180 / math.Pi
	if strikeDir.X < 0 {
		strike = 360 - strike
	}
	return dip, strike, true
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

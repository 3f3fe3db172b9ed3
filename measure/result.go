package measure

import "github.com/golang/geo/r3"

// Flags describe conditions under which the numbers in a Result are partial
// or missing. They are diagnostics, not errors: a flagged Result is still the
// best available answer.
type Flags struct {
	// Degenerate: fewer than three distinct corners survived filtering,
	// nothing was computed.
	Degenerate bool

	// TooLarge: the polygon spans more than a hemisphere, the planar
	// projection breaks down and the computation was skipped.
	TooLarge bool

	// EdgesIncomplete: edge recovery gave up before every polygon edge
	// appeared in the triangulation; area and volume may be off for
	// strongly concave or self-intersecting outlines.
	EdgesIncomplete bool

	// NonFinite: a corner position could not be evaluated, nothing was
	// computed.
	NonFinite bool
}

// Any reports whether any flag is set.
func (f Flags) Any() bool {
	return f.Degenerate || f.TooLarge || f.EdgesIncomplete || f.NonFinite
}

// BoundingBox is the lng/lat extent of the polygon corners, in radians.
type BoundingBox struct {
	MinLng float64
	MaxLng float64
	MinLat float64
	MaxLat float64
}

// Result is the output of one polygon measurement.
type Result struct {
	// Area is the terrain surface area in square meters.
	Area float64

	// PosVolume and NegVolume are the volumes above and below the
	// least-squares reference plane, in cubic meters. NegVolume is
	// negative or zero.
	PosVolume float64
	NegVolume float64

	// Mesh holds the refined triangulation as line segments lifted onto
	// the terrain, for display.
	Mesh [][2]r3.Vector

	BoundingBox BoundingBox
	Flags       Flags

	// Attempts and PointCount report how far the refinement got before
	// it converged or ran into its budgets.
	Attempts   int
	PointCount int
}

package voronoi

import (
	"math"

	"github.com/cosmoscout/csp-measurement-tools/internal"
)

// breakpoint is the moving intersection of two neighboring arcs. It traces
// out one Voronoi edge as the sweep advances: the edge runs from start to
// wherever the breakpoint ends up, either a circle-event center or the
// diagram boundary.
//
// Breakpoints double as nodes of the beach-line tree; the threading links
// (prev, next) keep them in left-to-right order.
type breakpoint struct {
	leftArc  *arc
	rightArc *arc
	start    Point

	left   *breakpoint
	right  *breakpoint
	parent *breakpoint
	prev   *breakpoint
	next   *breakpoint
	red    bool

	cachedSweep float64
	cached      Point
	hasCache    bool
}

// evalParabola returns the y of the parabola with the given focus and the
// sweep line as directrix, evaluated at x.
func evalParabola(focus Site, sweep, x float64) float64 {
	return ((x-focus.X)*(x-focus.X) + focus.Y*focus.Y - sweep*sweep) /
		(2 * (focus.Y - sweep))
}

// position returns the breakpoint's current location for the given sweep
// value. Results are cached per sweep value since the tree probes the same
// breakpoint several times during one descent.
func (b *breakpoint) position(sweep float64) Point {
	if b.hasCache && b.cachedSweep == sweep {
		return b.cached
	}

	p1 := b.leftArc.site
	p2 := b.rightArc.site

	var x float64
	switch {
	case p1.Y == p2.Y:
		x = (p1.X + p2.X) / 2
	case p1.Y == sweep:
		x = p1.X
	case p2.Y == sweep:
		x = p2.X
	default:
		d1 := 2 * (p1.Y - sweep)
		d2 := 2 * (p2.Y - sweep)
		qa := 1/d1 - 1/d2
		qb := -2 * (p1.X/d1 - p2.X/d2)
		qc := (p1.X*p1.X+p1.Y*p1.Y-sweep*sweep)/d1 -
			(p2.X*p2.X+p2.Y*p2.Y-sweep*sweep)/d2
		if qa == 0 {
			x = -qc / qb
			break
		}
		// Vieta split: q carries no cancellation, so both roots stay
		// accurate even when qa underflows toward zero. Sites on nearly
		// level rows (any axis-aligned outline) hit that regime, and the
		// naive (-qb+sq)/(2qa) form returns garbage for the near root
		// there.
		sq := math.Sqrt(math.Max(qb*qb-4*qa*qc, 0))
		q := -(qb + sq) / 2
		if qb < 0 {
			q = -(qb - sq) / 2
		}
		if q == 0 {
			x = 0
			break
		}
		r1 := q / qa
		r2 := qc / q
		// The two parabolas intersect twice; the arc ordering picks
		// the root. The higher focus owns the narrower parabola, so
		// with it on the left the breakpoint is the smaller root.
		if p1.Y > p2.Y {
			x = math.Min(r1, r2)
		} else {
			x = math.Max(r1, r2)
		}
	}

	if math.IsNaN(x) {
		internal.Fatalf("non-finite breakpoint between %v and %v at sweep %v", p1, p2, sweep)
	}

	var y float64
	switch {
	case p1.Y != sweep:
		y = evalParabola(p1, sweep, x)
	case p2.Y != sweep:
		y = evalParabola(p2, sweep, x)
	default:
		y = sweep
	}

	b.cached = Point{X: x, Y: y}
	b.cachedSweep = sweep
	b.hasCache = true
	return b.cached
}

// direction is the breakpoint's direction of motion as the sweep descends,
// perpendicular to the segment between the two sites.
func (b *breakpoint) direction() Point {
	p1 := b.leftArc.site
	p2 := b.rightArc.site
	return Point{X: p2.Y - p1.Y, Y: p1.X - p2.X}
}

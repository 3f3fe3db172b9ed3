package voronoi

import (
	"math"

	"github.com/cosmoscout/csp-measurement-tools/internal"
)

// beachline holds the arcs currently bounding the swept region, indexed by
// their breakpoints. It reports finished Voronoi edges and Delaunay edges
// through the two callbacks.
type beachline struct {
	tree    breakpointTree
	rootArc *arc

	delaunay func(a, b Site)
	edge     func(from, to Point)
}

// arcAt finds the arc vertically above x at the given sweep position: the
// left arc of the leftmost breakpoint at or right of x.
func (bl *beachline) arcAt(x, sweep float64) *arc {
	if bl.tree.root == nil {
		return bl.rootArc
	}
	var candidate *breakpoint
	for n := bl.tree.root; n != nil; {
		if n.position(sweep).X >= x {
			candidate = n
			n = n.left
		} else {
			n = n.right
		}
	}
	if candidate == nil {
		return bl.tree.last().rightArc
	}
	return candidate.leftArc
}

// insertArcFor splits the beach line at a new site and returns the arcs
// whose circle events need re-examination.
func (bl *beachline) insertArcFor(s Site, sweep float64) (*arc, *arc) {
	newArc := &arc{site: s}
	if bl.rootArc == nil && bl.tree.root == nil {
		bl.rootArc = newArc
		return nil, nil
	}

	target := bl.arcAt(s.X, sweep)
	target.invalidateEvent()
	oldLeft := target.leftBreak

	// A site at the same height as the target's focus degenerates both
	// parabolas to vertical rays; the arcs sit side by side with a single
	// breakpoint on the bisector instead of a split.
	if target.site.Y == s.Y {
		bp := &breakpoint{
			start: Point{X: (target.site.X + s.X) / 2, Y: s.Y},
		}
		if s.X < target.site.X {
			bp.leftArc, bp.rightArc = newArc, target
			newArc.leftBreak = oldLeft
			if oldLeft != nil {
				oldLeft.rightArc = newArc
			}
			newArc.rightBreak = bp
			target.leftBreak = bp
		} else {
			bp.leftArc, bp.rightArc = target, newArc
			newArc.rightBreak = target.rightBreak
			if target.rightBreak != nil {
				target.rightBreak.leftArc = newArc
			}
			newArc.leftBreak = bp
			target.rightBreak = bp
		}
		bl.tree.insertSuccessor(oldLeft, bp)
		bl.delaunay(target.site, s)
		return target, newArc
	}

	brokenLeft := &arc{site: target.site, leftBreak: target.leftBreak}
	brokenRight := &arc{site: target.site, rightBreak: target.rightBreak}
	if brokenLeft.leftBreak != nil {
		brokenLeft.leftBreak.rightArc = brokenLeft
	}
	if brokenRight.rightBreak != nil {
		brokenRight.rightBreak.leftArc = brokenRight
	}

	// Both new breakpoints start on the old arc directly above the site
	// and separate as the sweep continues.
	start := Point{X: s.X, Y: evalParabola(target.site, sweep, s.X)}
	lbp := &breakpoint{leftArc: brokenLeft, rightArc: newArc, start: start}
	rbp := &breakpoint{leftArc: newArc, rightArc: brokenRight, start: start}
	brokenLeft.rightBreak = lbp
	newArc.leftBreak = lbp
	newArc.rightBreak = rbp
	brokenRight.leftBreak = rbp

	bl.tree.insertSuccessor(oldLeft, lbp)
	bl.tree.insertSuccessor(lbp, rbp)

	bl.delaunay(target.site, s)
	return brokenLeft, brokenRight
}

// removeArc squeezes an arc out at a circle-event center. The two
// breakpoints flanking it are finalized into Voronoi edges and replaced by a
// single breakpoint between the former neighbors. Returns the neighbors for
// circle-event re-examination.
func (bl *beachline) removeArc(a *arc, center Point) (*arc, *arc) {
	lbp := a.leftBreak
	rbp := a.rightBreak
	if lbp == nil || rbp == nil {
		internal.Fatalf("circle event on an unbounded arc")
	}
	left := lbp.leftArc
	right := rbp.rightArc

	a.invalidateEvent()
	left.invalidateEvent()
	right.invalidateEvent()

	bl.edge(lbp.start, center)
	bl.edge(rbp.start, center)

	pred := lbp.prev
	bl.tree.remove(lbp)
	bl.tree.remove(rbp)

	merged := &breakpoint{leftArc: left, rightArc: right, start: center}
	left.rightBreak = merged
	right.leftBreak = merged
	bl.tree.insertSuccessor(pred, merged)

	bl.delaunay(left.site, right.site)
	return left, right
}

// finish extrapolates the breakpoints still alive after the last event along
// their direction of motion to a box slightly beyond the site cloud, turning
// each into a finite Voronoi edge.
func (bl *beachline) finish(min, max Point) {
	if bl.tree.root == nil {
		return
	}
	pad := 0.05 * math.Hypot(max.X-min.X, max.Y-min.Y)
	if pad == 0 {
		pad = 1
	}
	lo := Point{X: min.X - pad, Y: min.Y - pad}
	hi := Point{X: max.X + pad, Y: max.Y + pad}

	for node := bl.tree.first(bl.tree.root); node != nil; node = node.next {
		dir := node.direction()
		if dir.X == 0 && dir.Y == 0 {
			continue
		}
		end, ok := clipRay(node.start, dir, lo, hi)
		if !ok {
			continue
		}
		bl.edge(node.start, end)
	}
}

// clipRay returns where the ray start+t*dir (t > 0) leaves the box, false if
// it never travels through it.
func clipRay(start, dir, lo, hi Point) (Point, bool) {
	tMax := math.Inf(1)
	if dir.X > 0 {
		tMax = math.Min(tMax, (hi.X-start.X)/dir.X)
	} else if dir.X < 0 {
		tMax = math.Min(tMax, (lo.X-start.X)/dir.X)
	}
	if dir.Y > 0 {
		tMax = math.Min(tMax, (hi.Y-start.Y)/dir.Y)
	} else if dir.Y < 0 {
		tMax = math.Min(tMax, (lo.Y-start.Y)/dir.Y)
	}
	if tMax <= 0 || math.IsInf(tMax, 1) {
		return Point{}, false
	}
	return Point{X: start.X + tMax*dir.X, Y: start.Y + tMax*dir.Y}, true
}

package measure

import (
	"math"
	"sort"

	"github.com/cosmoscout/csp-measurement-tools/measure/voronoi"
)

// buildMesh triangulates the projected polygon and repairs the
// triangulation until every original polygon edge appears in it. A Delaunay
// triangulation of the corners alone can cut across concave notches; where
// it does, the offending polygon edge is intersected with the triangulation
// edges and the intersection points become additional corners for the next
// round. Gives up after five rounds.
func (s *session) buildMesh() []voronoi.Triangle {
	var triangles []voronoi.Triangle
	edgesOK := false

	for it := 0; !edgesOK && it < 5; it++ {
		d := voronoi.Parse(s.corners)
		triangles = d.Triangles

		n := len(s.corners)
		present := make(map[int]bool, n)
		for _, e := range d.Triangulation {
			if e.A.Addr >= n || e.B.Addr >= n {
				continue
			}
			diff := e.A.Addr - e.B.Addr
			if diff == 1 || diff == -1 {
				present[min(e.A.Addr, e.B.Addr)] = true
			} else if diff == n-1 || diff == -(n-1) {
				present[n-1] = true
			}
		}
		if len(present) == n {
			edgesOK = true
			break
		}

		// Cut the missing edges against the triangulation and collect
		// the intersection points as corners to splice in.
		var add []voronoi.Site
		for i := 0; i < n; i++ {
			if present[i] {
				continue
			}
			site1 := s.corners[i]
			site2 := s.corners[(i+1)%n]
			for _, e := range d.Triangulation {
				ix, iy, ok := findIntersection(site1, site2, e.A, e.B)
				if !ok {
					continue
				}
				// Addr marks the insertion slot, right after
				// the edge's first corner.
				add = append(add, voronoi.Site{X: ix, Y: iy, Addr: i + 1})
			}
		}
		if len(add) == 0 {
			// Edges are missing but nothing intersects them; more
			// rounds will not help.
			break
		}

		// Order recovered corners along their edge, walking away from
		// the edge's first endpoint, so the spliced polygon outline
		// stays consistent.
		sort.SliceStable(add, func(a, b int) bool {
			if add[a].Addr != add[b].Addr {
				return add[a].Addr < add[b].Addr
			}
			s1 := s.corners[add[a].Addr-1]
			s2 := s.corners[add[a].Addr%n]
			if s2.X > s1.X {
				return add[a].X < add[b].X
			}
			if s2.X < s1.X {
				return add[a].X > add[b].X
			}
			if s2.Y > s1.Y {
				return add[a].Y < add[b].Y
			}
			return add[a].Y > add[b].Y
		})

		out := make([]voronoi.Site, 0, n+len(add))
		k := 0
		for i, c := range s.corners {
			for k < len(add) && add[k].Addr == i {
				out = append(out, add[k])
				k++
			}
			out = append(out, c)
		}
		for ; k < len(add); k++ {
			out = append(out, add[k])
		}
		for i := range out {
			out[i].Addr = i
		}
		s.corners = out
	}

	if !edgesOK {
		s.result.Flags.EdgesIncomplete = true
		s.log.Warn("area calculation can be false: concave or self-intersecting polygon, check triangulation mesh")
	}
	return triangles
}

// insidePolygon is an even-odd crossing test against the polygon outline,
// with a fuzzy band around the edges so points sitting numerically on an
// edge still count as crossings.
func (s *session) insidePolygon(x, y float64) bool {
	result := false
	n := len(s.corners)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		ci := s.corners[i]
		cj := s.corners[j]
		if (ci.Y > y) == (cj.Y > y) {
			continue
		}
		crossX := (cj.X-ci.X)*(y-ci.Y)/(cj.Y-ci.Y) + ci.X
		if x < crossX || math.Abs(x-crossX) < 0.001 {
			result = !result
		}
	}
	return result
}

// findIntersection intersects the segments s1-s2 and s3-s4. Intersections
// within a 1% relative band around any endpoint are rejected to keep
// recovered corners from duplicating existing ones. Coordinates exactly at
// zero cannot be banded relatively and bail out early.
func findIntersection(s1, s2, s3, s4 voronoi.Site) (float64, float64, bool) {
	if s1.X == 0 || s2.X == 0 || s3.X == 0 || s4.X == 0 ||
		s1.Y == 0 || s2.Y == 0 || s3.Y == 0 || s4.Y == 0 {
		return 0, 0, false
	}

	const safety = 0.01

	m1 := (s2.Y - s1.Y) / (s2.X - s1.X)
	c1 := s1.Y - m1*s1.X
	m2 := (s4.Y - s3.Y) / (s4.X - s3.X)
	c2 := s3.Y - m2*s3.X

	if m1 == m2 {
		return 0, 0, false
	}
	ix := (c2 - c1) / (m1 - m2)
	iy := m1*ix + c1

	if (s1.X > ix) == (s2.X > ix) || (s3.X > ix) == (s4.X > ix) ||
		(s1.Y > iy) == (s2.Y > iy) || (s3.Y > iy) == (s4.Y > iy) {
		return 0, 0, false
	}

	outsideBand := func(p voronoi.Site) bool {
		return math.Abs((p.X-ix)/p.X) > safety || math.Abs((p.Y-iy)/p.Y) > safety
	}
	if outsideBand(s1) && outsideBand(s2) && outsideBand(s3) && outsideBand(s4) {
		return ix, iy, true
	}
	return 0, 0, false
}

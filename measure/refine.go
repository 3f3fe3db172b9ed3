package measure

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/cosmoscout/csp-measurement-tools/body"
	"github.com/cosmoscout/csp-measurement-tools/measure/voronoi"
)

func planeDist(a, b voronoi.Site) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// splitSleekTriangles triangulates the point set of base triangle tc and
// splits the long edge of every triangle thinner than the configured minimal
// angle by adding its midpoint. Returns true when this added so many points
// that the terrain pass should be skipped for this base triangle.
func (s *session) splitSleekTriangles(tc int) bool {
	d := voronoi.Parse(s.cornersFine[tc])

	minAngle := s.set.Sleekness * math.Pi / 180
	// Edge ratio criterion, and the ratio between the two shorter edges
	// combined and the long one. Approximate, but catches both sliver
	// shapes.
	sleek1 := 1 / math.Sin(minAngle)
	sleek2 := 1 / math.Cos(minAngle)

	before := len(s.cornersFine[tc])
	var added [][2]int

	addMidpoint := func(a, b voronoi.Site) {
		for _, p := range added {
			if (p[0] == a.Addr && p[1] == b.Addr) || (p[0] == b.Addr && p[1] == a.Addr) {
				return
			}
		}
		s.cornersFine[tc] = append(s.cornersFine[tc], voronoi.Site{
			X:    (a.X + b.X) / 2,
			Y:    (a.Y + b.Y) / 2,
			Addr: len(s.cornersFine[tc]),
		})
		added = append(added, [2]int{a.Addr, b.Addr})
	}

	for _, t := range d.Triangles {
		l1 := planeDist(t.A, t.B)
		l2 := planeDist(t.A, t.C)
		l3 := planeDist(t.B, t.C)

		if l2*sleek1 < l1 || l3*sleek1 < l1 || l2+l3 < l1*sleek2 {
			addMidpoint(t.A, t.B)
		}
		if l1*sleek1 < l2 || l3*sleek1 < l2 || l1+l3 < l2*sleek2 {
			addMidpoint(t.A, t.C)
		}
		if l1*sleek1 < l3 || l2*sleek1 < l3 || l1+l2 < l3*sleek2 {
			addMidpoint(t.B, t.C)
		}
	}

	return float64(len(added)) > 1.5*float64(before)
}

// displayEdge lifts a mesh edge onto the terrain, appends it to the display
// mesh and returns the terrain heights at its endpoints. A NaN height draws
// the endpoint on the bare sphere.
func (s *session) displayEdge(e voronoi.DelaunayEdge) (h1, h2 float64) {
	lift := func(x, y float64) (r3.Vector, float64) {
		p := s.liftFlat(x, y)
		h := s.heightAt(body.ToLngLat(p))
		hDraw := h
		if math.IsNaN(hDraw) {
			hDraw = 0
		}
		ll := body.ToLngLat(p)
		return body.ToCartesian(ll.Lng, ll.Lat, s.radius, hDraw), h
	}

	r1, h1 := lift(e.A.X, e.A.Y)
	r2, h2 := lift(e.B.X, e.B.Y)
	s.result.Mesh = append(s.result.Mesh, [2]r3.Vector{r1, r2})
	return h1, h2
}

// refineEdge samples the terrain along a mesh edge and adds sample points to
// base triangle tc wherever the terrain deviates from the linear
// interpolation between the endpoint heights by more than the HeightDiff
// ratio. Clears fine when it added anything.
func (s *session) refineEdge(e voronoi.DelaunayEdge, tc int, h1, h2 float64, fine *bool) {
	hd := s.set.HeightDiff

	exceeds := func(sampled, interpolated float64) bool {
		return sampled/interpolated > hd || interpolated/sampled > hd
	}

	heightAtPlane := func(x, y float64) float64 {
		return s.heightAt(body.ToLngLat(s.liftFlat(x, y)))
	}

	midX := (e.A.X + e.B.X) / 2
	midY := (e.A.Y + e.B.Y) / 2

	if exceeds(heightAtPlane(midX, midY), (h1+h2)/2) {
		s.cornersFine[tc] = append(s.cornersFine[tc], voronoi.Site{
			X: midX, Y: midY, Addr: len(s.cornersFine[tc]),
		})
		*fine = false
		return
	}

	// The midpoint matches; probe trisection and finer subdivisions until
	// one level disagrees.
	for j := 3; j < 6; j++ {
		if !*fine {
			return
		}
		for i := 1; i < j; i++ {
			x := (float64(i)*e.A.X + float64(j-i)*e.B.X) / float64(j)
			y := (float64(i)*e.A.Y + float64(j-i)*e.B.Y) / float64(j)
			interpolated := (float64(i)*h1 + float64(j-i)*h2) / float64(j)
			if exceeds(heightAtPlane(x, y), interpolated) {
				s.cornersFine[tc] = append(s.cornersFine[tc], voronoi.Site{
					X: x, Y: y, Addr: len(s.cornersFine[tc]),
				})
				*fine = false
			}
		}
	}
}

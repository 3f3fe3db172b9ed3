package measure

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/cosmoscout/csp-measurement-tools/body"
	"github.com/cosmoscout/csp-measurement-tools/measure/voronoi"
)

// crossingSamples is the resolution of the edge search for plane
// intersections during volume integration.
const crossingSamples = 32

// integrate accumulates surface area and signed volume over the refined
// triangles of one base triangle. Area is measured on the terrain; volume is
// measured against the least-squares reference plane, positive above it and
// negative below. Triangles with an undefined terrain height contribute
// nothing.
func (s *session) integrate(triangles []voronoi.Triangle, area, pvol, nvol *float64) {
	for _, t := range triangles {
		p1 := s.liftFlat(t.A.X, t.A.Y)
		p2 := s.liftFlat(t.B.X, t.B.Y)
		p3 := s.liftFlat(t.C.X, t.C.Y)

		h1 := s.heightAt(body.ToLngLat(p1))
		h2 := s.heightAt(body.ToLngLat(p2))
		h3 := s.heightAt(body.ToLngLat(p3))
		if math.IsNaN(h1) || math.IsNaN(h2) || math.IsNaN(h3) {
			continue
		}

		lift := func(p r3.Vector, h float64) r3.Vector {
			ll := body.ToLngLat(p)
			return body.ToCartesian(ll.Lng, ll.Lat, s.radius, h)
		}
		r1 := lift(p1, h1)
		r2 := lift(p2, h2)
		r3v := lift(p3, h3)

		*area += r2.Sub(r1).Cross(r3v.Sub(r1)).Norm() / 2

		// Heights over the reference plane.
		hl1 := s.planeHeight(p1, h1)
		hl2 := s.planeHeight(p2, h2)
		hl3 := s.planeHeight(p3, h3)

		// All corners on the same side: a single prism.
		if (hl1 > 0 && hl2 > 0 && hl3 > 0) || (hl1 < 0 && hl2 < 0 && hl3 < 0) {
			base := p2.Sub(p1).Cross(p3.Sub(p1)).Norm() / 2
			volume := base * (hl1 + hl2 + hl3) / 3
			if volume > 0 {
				*pvol += volume
			} else {
				*nvol += volume
			}
			continue
		}

		// The plane cuts through the triangle: search the sign-changing
		// edges for their crossing points and split into a corner
		// triangle and a quadrilateral. Crossings are treated as height
		// zero.
		var pM1, pM2, pM3 r3.Vector
		var b1, b2, b3 bool
		if (hl1 > 0) != (hl2 > 0) {
			pM1, b1 = s.findCrossing(p1, p2, hl1)
		}
		if (hl1 > 0) != (hl3 > 0) {
			pM2, b2 = s.findCrossing(p1, p3, hl1)
		}
		if (hl2 > 0) != (hl3 > 0) {
			pM3, b3 = s.findCrossing(p2, p3, hl2)
		}

		switch {
		case b1 && b2 && !b3:
			corner := pM1.Sub(p1).Cross(pM2.Sub(p1)).Norm() / 2
			quad := pM1.Sub(p3).Cross(pM2.Sub(p3)).Norm()/2 +
				pM1.Sub(p2).Cross(p3.Sub(p2)).Norm()/2
			if hl1 > 0 {
				*pvol += corner * hl1 / 3
				*nvol += quad * (hl2 + hl3) / 4
			} else {
				*nvol += corner * hl1 / 3
				*pvol += quad * (hl2 + hl3) / 4
			}

		case b1 && !b2 && b3:
			corner := pM1.Sub(p2).Cross(pM3.Sub(p2)).Norm() / 2
			quad := pM1.Sub(p1).Cross(pM3.Sub(p1)).Norm()/2 +
				pM3.Sub(p3).Cross(p1.Sub(p3)).Norm()/2
			if hl2 > 0 {
				*pvol += corner * hl2 / 3
				*nvol += quad * (hl1 + hl3) / 4
			} else {
				*nvol += corner * hl2 / 3
				*pvol += quad * (hl1 + hl3) / 4
			}

		case !b1 && b2 && b3:
			corner := pM3.Sub(p3).Cross(pM2.Sub(p3)).Norm() / 2
			quad := pM2.Sub(p2).Cross(pM3.Sub(p2)).Norm()/2 +
				pM2.Sub(p1).Cross(p2.Sub(p1)).Norm()/2
			if hl3 > 0 {
				*pvol += corner * hl3 / 3
				*nvol += quad * (hl1 + hl2) / 4
			} else {
				*nvol += corner * hl3 / 3
				*pvol += quad * (hl1 + hl2) / 4
			}

		default:
			// Fewer or more than two crossings found; fall back to a
			// single prism.
			base := p2.Sub(p1).Cross(p3.Sub(p1)).Norm() / 2
			volume := base * (hl1 + hl2 + hl3) / 3
			if volume > 0 {
				*pvol += volume
			} else {
				*nvol += volume
			}
		}
	}
}

// findCrossing walks the great-circle edge from pa to pb in fixed steps and
// interpolates the point where the terrain crosses the reference plane.
// hlRef is the plane height at pa; its sign decides which side the walk
// starts on. Multiple crossings along one edge are not resolved, the first
// one wins.
func (s *session) findCrossing(pa, pb r3.Vector, hlRef float64) (r3.Vector, bool) {
	var pOld r3.Vector
	var hlOld float64
	for i := 0; i < crossingSamples; i++ {
		frac := float64(i) / crossingSamples
		p := pa.Mul(1 - frac).Add(pb.Mul(frac)).Normalize().Mul(s.radius)
		h := s.heightAt(body.ToLngLat(p))
		hl := s.planeHeight(p, h)
		if (hlRef > 0) != (hl > 0) {
			return pOld.Sub(p.Sub(pOld).Mul(hlOld / (hl - hlOld))), true
		}
		pOld = p
		hlOld = hl
	}
	return r3.Vector{}, false
}

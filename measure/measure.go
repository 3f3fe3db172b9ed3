// Package measure computes terrain surface area and signed volume for
// polygons outlined on a celestial body.
//
// The polygon corners are projected onto a plane tangent to the body below
// the polygon's center, triangulated there, and the triangulation is refined
// until the lifted mesh follows the terrain within the configured height
// tolerance. Area is integrated over the lifted triangles; volume is split
// into the parts above and below a least-squares reference plane through the
// corners.
package measure

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cosmoscout/csp-measurement-tools/body"
	"github.com/cosmoscout/csp-measurement-tools/internal"
	"github.com/cosmoscout/csp-measurement-tools/measure/voronoi"
)

// Compute measures the polygon described by corners on the given body.
// Errors are reserved for invalid settings and bodies; conditions arising
// from the polygon itself are reported through Result.Flags. A nil logger
// disables diagnostics.
func Compute(corners []body.LngLat, b body.Body, s Settings, log *zap.Logger) (result Result, err error) {
	defer func() {
		if recovered := internal.HandleMeasurePanicRecover(recover()); recovered != nil {
			result = Result{}
			err = recovered
		}
	}()

	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	if b == nil {
		return Result{}, errors.New("measure: nil body")
	}
	if b.Radius() <= 0 {
		return Result{}, errors.Errorf("measure: body radius must be positive, got %v", b.Radius())
	}
	if log == nil {
		log = zap.NewNop()
	}

	ses := &session{body: b, set: s, log: log, radius: b.Radius()}
	ses.run(corners)
	return ses.result, nil
}

// session carries the state of one measurement: the tangent frame of the
// projection plane, the reference plane for volumes, and the accumulating
// mesh.
type session struct {
	body body.Body
	set  Settings
	log  *zap.Logger

	radius  float64
	maxDist float64
	middle  r3.Vector
	normal  r3.Vector
	east    r3.Vector
	north   r3.Vector

	planeNormal r3.Vector
	planeMiddle r3.Vector

	corners     []voronoi.Site
	cornersFine [][]voronoi.Site

	result Result
}

// heightAt reads the terrain oracle with the configured height scale
// applied.
func (s *session) heightAt(ll body.LngLat) float64 {
	return s.body.Height(ll.Lng, ll.Lat) * s.set.HeightScale
}

// liftFlat maps a point of the projection plane back onto the reference
// sphere, without terrain height.
func (s *session) liftFlat(x, y float64) r3.Vector {
	p := s.middle.
		Add(s.east.Mul(s.maxDist * x)).
		Add(s.north.Mul(s.maxDist * y))
	return p.Normalize().Mul(s.radius)
}

// planeHeight converts a terrain height over the sphere into a height over
// the least-squares reference plane, at the unheighted surface point p.
func (s *session) planeHeight(p r3.Vector, h float64) float64 {
	q := s.planeNormal.Dot(s.planeMiddle) / s.planeNormal.Dot(p)
	return h - (q-1)*s.planeMiddle.Norm()
}

func (s *session) run(input []body.LngLat) {
	if len(input) < 3 {
		s.result.Flags.Degenerate = true
		return
	}

	bb := BoundingBox{
		MinLng: input[0].Lng, MaxLng: input[0].Lng,
		MinLat: input[0].Lat, MaxLat: input[0].Lat,
	}
	for _, ll := range input[1:] {
		bb.MinLng = math.Min(bb.MinLng, ll.Lng)
		bb.MaxLng = math.Max(bb.MaxLng, ll.Lng)
		bb.MinLat = math.Min(bb.MinLat, ll.Lat)
		bb.MaxLat = math.Max(bb.MaxLat, ll.Lat)
	}
	s.result.BoundingBox = bb

	// Corner positions on the terrain.
	positions := make([]r3.Vector, 0, len(input))
	for _, ll := range input {
		p := body.ToCartesian(ll.Lng, ll.Lat, s.radius, s.heightAt(ll))
		if !body.Finite(p) || p.Norm() == 0 {
			s.result.Flags.NonFinite = true
			return
		}
		positions = append(positions, p)
	}

	average := r3.Vector{}
	for _, p := range positions {
		average = average.Add(p.Mul(1 / float64(len(positions))))
	}

	maxDist := 0.0
	for _, p := range positions {
		maxDist = math.Max(maxDist, average.Sub(p).Norm())
	}

	// The planar projection only works for polygons within one
	// hemisphere.
	if maxDist > s.radius {
		s.result.Flags.TooLarge = true
		s.log.Warn("polygon spans more than a hemisphere, calculation skipped")
		return
	}
	// Projected extent of the polygon, padded by 20% so all plane
	// coordinates stay below 1.
	s.maxDist = 1.2 * maxDist * s.radius /
		math.Sqrt(s.radius*s.radius-maxDist*maxDist)

	s.normal = average.Normalize()
	s.middle = s.normal.Mul(s.radius)
	s.east, s.north = tangentFrame(s.normal)

	s.fitReferencePlane(positions, average)

	if !s.projectCorners(positions) {
		return
	}

	triangles := s.buildMesh()

	fine := false
	attempt := 0
	var area, pvol, nvol float64
	pointCount := 0

	for !fine && attempt < s.set.MaxAttempt && pointCount < s.set.MaxPoints {
		attempt++
		fine = true
		area, pvol, nvol = 0, 0, 0
		pointCount = 0
		s.result.Mesh = s.result.Mesh[:0]

		tc := 0
		for _, t := range triangles {
			cx := (t.A.X + t.B.X + t.C.X) / 3
			cy := (t.A.Y + t.B.Y + t.C.Y) / 3

			// Triangles whose center falls outside the polygon
			// fill concave notches and are skipped.
			if !s.insidePolygon(cx, cy) {
				continue
			}

			if attempt == 1 {
				s.cornersFine = append(s.cornersFine, []voronoi.Site{
					{X: t.A.X, Y: t.A.Y, Addr: 0},
					{X: t.B.X, Y: t.B.Y, Addr: 1},
					{X: t.C.X, Y: t.C.Y, Addr: 2},
				})
			}

			tooMany := s.splitSleekTriangles(tc)

			d := voronoi.Parse(s.cornersFine[tc])
			for _, e := range d.Triangulation {
				h1, h2 := s.displayEdge(e)
				if !tooMany && pointCount < s.set.MaxPoints && attempt < s.set.MaxAttempt {
					s.refineEdge(e, tc, h1, h2, &fine)
				}
			}

			s.integrate(d.Triangles, &area, &pvol, &nvol)

			pointCount += len(s.cornersFine[tc])
			tc++
		}
	}

	s.result.Area = area
	s.result.PosVolume = pvol
	s.result.NegVolume = nvol
	s.result.Attempts = attempt
	s.result.PointCount = pointCount

	s.log.Debug("measurement finished",
		zap.Float64("area", area),
		zap.Float64("posVolume", pvol),
		zap.Float64("negVolume", nvol),
		zap.Int("attempts", attempt),
		zap.Int("points", pointCount))
}

// tangentFrame builds the east/north basis of the projection plane for the
// given radial normal. North is the tangent direction with the largest
// upward component; on the equatorial plane it is the polar axis itself.
func tangentFrame(normal r3.Vector) (east, north r3.Vector) {
	if normal.Y != 0 {
		yNorth := (normal.X*normal.X + normal.Z*normal.Z) / normal.Y
		north = r3.Vector{X: -normal.X, Y: yNorth, Z: -normal.Z}.Normalize()
		if yNorth < 0 {
			north = r3.Vector{X: normal.X, Y: -yNorth, Z: normal.Z}.Normalize()
		}
	} else {
		north = r3.Vector{X: 0, Y: 1, Z: 0}
	}
	east = normal.Cross(north).Mul(-1)
	return east, north
}

// fitReferencePlane fits the volume reference plane through the corner
// positions. A singular fit (collinear corners) falls back to the plane
// tangent at the centroid.
func (s *session) fitReferencePlane(positions []r3.Vector, average r3.Vector) {
	normal, offset, ok := FitPlane(positions, average)
	if !ok {
		s.planeNormal = average.Normalize()
		s.planeMiddle = average
		return
	}
	if s.normal.Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}
	s.planeNormal = normal
	s.planeMiddle = average.Add(normal.Mul(s.radius * offset))
}

// projectCorners maps the corner positions into plane coordinates,
// normalized by maxDist into the unit disk. Consecutive duplicates are
// dropped. Returns false when the projection fails or degenerates.
func (s *session) projectCorners(positions []r3.Vector) bool {
	var last r3.Vector
	addr := 0
	for i, p := range positions {
		if i > 0 && p == last {
			continue
		}
		last = p

		// Corners sit above or below the sphere; scale them onto the
		// projection plane.
		k := s.normal.Dot(s.middle) / s.normal.Dot(p)
		pos := p.Mul(k)

		x := s.east.Dot(pos.Sub(s.middle))
		y := s.north.Dot(pos.Sub(s.middle))
		if math.IsNaN(x/s.maxDist) || math.IsNaN(y/s.maxDist) {
			s.result.Flags.NonFinite = true
			return false
		}

		s.corners = append(s.corners, voronoi.Site{
			X:    x / s.maxDist,
			Y:    y / s.maxDist,
			Addr: addr,
		})
		addr++
	}

	if len(s.corners) < 3 {
		s.result.Flags.Degenerate = true
		return false
	}
	return true
}

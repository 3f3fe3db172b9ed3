package tools

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/cosmoscout/csp-measurement-tools/body"
	"github.com/cosmoscout/csp-measurement-tools/measure"
)

func heighted(b body.Body, ll body.LngLat, scale float64) r3.Vector {
	return body.ToCartesian(ll.Lng, ll.Lat, b.Radius(), b.Height(ll.Lng, ll.Lat)*scale)
}

// Axes are the two semi-axis vectors spanned by the handles, in body-fixed
// cartesian coordinates.
func (e *Ellipse) Axes(b body.Body, set measure.Settings) (r3.Vector, r3.Vector) {
	center := heighted(b, e.CenterHandle, set.HeightScale)
	first := heighted(b, e.FirstHandle, set.HeightScale)
	second := heighted(b, e.SecondHandle, set.HeightScale)
	return first.Sub(center), second.Sub(center)
}

// Vertices samples the ellipse outline and drops each point back onto the
// terrain. The first and last vertex coincide so the outline closes.
func (e *Ellipse) Vertices(b body.Body, set measure.Settings) []r3.Vector {
	center := heighted(b, e.CenterHandle, set.HeightScale)
	axis0, axis1 := e.Axes(b, set)
	r := b.Radius()

	vertices := make([]r3.Vector, 0, set.NumSamples)
	for i := 0; i < set.NumSamples; i++ {
		phi := 2 * math.Pi * float64(i) / float64(set.NumSamples-1)
		onPlane := center.Add(axis0.Mul(math.Sin(phi))).Add(axis1.Mul(math.Cos(phi)))

		// The planar point floats above or below the terrain; project it
		// down and lift it by the real height there.
		ll := body.ToLngLat(onPlane)
		h := b.Height(ll.Lng, ll.Lat) * set.HeightScale
		vertices = append(vertices, body.ToCartesian(ll.Lng, ll.Lat, r, h))
	}
	return vertices
}

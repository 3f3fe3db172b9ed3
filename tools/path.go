package tools

import (
	"github.com/golang/geo/r3"

	"github.com/cosmoscout/csp-measurement-tools/body"
	"github.com/cosmoscout/csp-measurement-tools/measure"
)

// ProfilePoint is one sample of a path's elevation profile: the distance
// walked along the surface so far and the unscaled terrain height there.
type ProfilePoint struct {
	Distance float64
	Height   float64
}

// PathSample is the sampled form of a Path.
type PathSample struct {
	// Points are the exaggerated surface positions along the path, ready
	// for display.
	Points []r3.Vector

	Profile     []ProfilePoint
	BoundingBox measure.BoundingBox
}

// interpolated walks a fraction of the straight chord between two marks and
// drops the result back onto the terrain. Sampling the chord instead of the
// great circle matches how the path is rendered.
func interpolated(b body.Body, l0, l1 body.LngLat, frac, scale float64) (r3.Vector, body.LngLat, float64) {
	r := b.Radius()
	p0 := body.ToCartesian(l0.Lng, l0.Lat, r, b.Height(l0.Lng, l0.Lat)*scale)
	p1 := body.ToCartesian(l1.Lng, l1.Lat, r, b.Height(l1.Lng, l1.Lat)*scale)

	chord := p0.Add(p1.Sub(p0).Mul(frac))
	ll := body.ToLngLat(chord)
	h := b.Height(ll.Lng, ll.Lat) * scale
	return body.ToCartesian(ll.Lng, ll.Lat, r, h), ll, h
}

// Sample walks the path segment by segment and produces the display
// positions, the elevation profile and the lng/lat bounding box. Distances
// in the profile are measured over the real, unexaggerated surface so the
// profile stays comparable across height scales.
func (p *Path) Sample(b body.Body, set measure.Settings) PathSample {
	var out PathSample
	if len(p.Positions) < 2 {
		return out
	}

	first := true
	distance := 0.0
	var lastReal r3.Vector

	for seg := 0; seg+1 < len(p.Positions); seg++ {
		l0 := p.Positions[seg]
		l1 := p.Positions[seg+1]

		for i := 0; i < set.NumSamples; i++ {
			frac := float64(i) / float64(set.NumSamples)

			pos, ll, h := interpolated(b, l0, l1, frac, set.HeightScale)
			real := pos
			if set.HeightScale != 1 {
				real, _, _ = interpolated(b, l0, l1, frac, 1)
			}

			if first {
				first = false
				out.BoundingBox = measure.BoundingBox{
					MinLng: ll.Lng, MaxLng: ll.Lng,
					MinLat: ll.Lat, MaxLat: ll.Lat,
				}
			} else {
				distance += real.Sub(lastReal).Norm()
				out.BoundingBox.MinLng = min(out.BoundingBox.MinLng, ll.Lng)
				out.BoundingBox.MaxLng = max(out.BoundingBox.MaxLng, ll.Lng)
				out.BoundingBox.MinLat = min(out.BoundingBox.MinLat, ll.Lat)
				out.BoundingBox.MaxLat = max(out.BoundingBox.MaxLat, ll.Lat)
			}
			lastReal = real

			out.Points = append(out.Points, pos)
			out.Profile = append(out.Profile, ProfilePoint{
				Distance: distance,
				Height:   h / set.HeightScale,
			})
		}
	}
	return out
}

// Length is the surface distance covered by the whole path, in meters.
func (p *Path) Length(b body.Body, set measure.Settings) float64 {
	sample := p.Sample(b, set)
	if len(sample.Profile) == 0 {
		return 0
	}
	return sample.Profile[len(sample.Profile)-1].Distance
}

package measure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmoscout/csp-measurement-tools/body"
)

const testRadius = 1e6

func smoothSphere() body.Sphere {
	return body.Sphere{R: testRadius}
}

// flatAreaOf is the planar shoelace area of the outline, in square meters,
// good to well below a percent for the small test polygons.
func flatAreaOf(corners []body.LngLat) float64 {
	midLat := 0.0
	for _, c := range corners {
		midLat += c.Lat / float64(len(corners))
	}
	area := 0.0
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%len(corners)]
		ax := a.Lng * testRadius * math.Cos(midLat)
		bx := b.Lng * testRadius * math.Cos(midLat)
		ay := a.Lat * testRadius
		by := b.Lat * testRadius
		area += ax*by - bx*ay
	}
	return math.Abs(area) / 2
}

func square(lng0, lat0, side float64) []body.LngLat {
	return []body.LngLat{
		{Lng: lng0, Lat: lat0},
		{Lng: lng0 + side, Lat: lat0},
		{Lng: lng0 + side, Lat: lat0 + side},
		{Lng: lng0, Lat: lat0 + side},
	}
}

func TestComputeFlat(t *testing.T) {
	t.Run("square", func(t *testing.T) {
		corners := square(0.05, 0.04, 0.01)
		res, err := Compute(corners, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.False(t, res.Flags.Any(), "flags: %+v", res.Flags)
		assert.InEpsilon(t, flatAreaOf(corners), res.Area, 0.01)
		// The smooth sphere bulges above the plane through the corners,
		// so the positive volume is the spherical cap segment; nothing
		// dips below it.
		assert.GreaterOrEqual(t, res.PosVolume, 0.0)
		assert.LessOrEqual(t, res.NegVolume, 0.0)
		assert.Less(t, -res.NegVolume, res.PosVolume+1)
		// On featureless terrain the net volume stays within the
		// flatness tolerance, and the area can never exceed the full
		// sphere bound.
		assert.LessOrEqual(t, math.Abs(res.PosVolume+res.NegVolume),
			1e-3*res.Area*testRadius)
		assert.LessOrEqual(t, res.Area, 2*math.Pi*testRadius*testRadius)
		assert.NotEmpty(t, res.Mesh)
		assert.Equal(t, 0.05, res.BoundingBox.MinLng)
		assert.Equal(t, 0.06, res.BoundingBox.MaxLng)
	})

	t.Run("equilateral triangle", func(t *testing.T) {
		h := 0.01 * math.Sqrt(3) / 2
		corners := []body.LngLat{
			{Lng: 0.03, Lat: 0.03},
			{Lng: 0.04, Lat: 0.03},
			{Lng: 0.035, Lat: 0.03 + h},
		}
		res, err := Compute(corners, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.False(t, res.Flags.Any())
		assert.InEpsilon(t, flatAreaOf(corners), res.Area, 0.01)
	})

	t.Run("concave u shape", func(t *testing.T) {
		corners := LoadFixture("ushape")
		res, err := Compute(corners, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.False(t, res.Flags.Any(), "flags: %+v", res.Flags)
		assert.InEpsilon(t, flatAreaOf(corners), res.Area, 0.01)
	})
}

func TestComputeTerrain(t *testing.T) {
	bump := func(sign float64) body.Sphere {
		const cx, cy, sigma, height = 0.04, 0.04, 0.0008, 200.0
		return body.Sphere{R: testRadius, Relief: func(lng, lat float64) float64 {
			d2 := (lng-cx)*(lng-cx) + (lat-cy)*(lat-cy)
			return sign * height * math.Exp(-d2/(sigma*sigma))
		}}
	}
	corners := square(0.038, 0.038, 0.004)

	t.Run("hill adds positive volume", func(t *testing.T) {
		res, err := Compute(corners, bump(1), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.False(t, res.Flags.Any())

		// Gaussian hill volume: height * pi * sigma^2, in meters.
		expected := 200.0 * math.Pi * 800 * 800
		assert.Greater(t, res.PosVolume, 0.5*expected)
		assert.Less(t, res.PosVolume, 2*expected)
		assert.LessOrEqual(t, res.NegVolume, 0.0)
		assert.Less(t, math.Abs(res.NegVolume), res.PosVolume/2)

		// Terrain can only add surface area.
		assert.Greater(t, res.Area, flatAreaOf(corners))
	})

	t.Run("crater adds negative volume", func(t *testing.T) {
		res, err := Compute(corners, bump(-1), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.Less(t, res.NegVolume, 0.0)
		assert.Less(t, math.Abs(res.PosVolume), math.Abs(res.NegVolume)/2)
	})

	t.Run("height scale scales volume", func(t *testing.T) {
		s := DefaultSettings()
		s.HeightScale = 2
		scaled, err := Compute(corners, bump(1), s, nil)
		require.NoError(t, err)
		plain, err := Compute(corners, bump(1), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.Greater(t, scaled.PosVolume, 1.5*plain.PosVolume)
	})

	t.Run("sinusoidal terrain forces refinement", func(t *testing.T) {
		rough := body.Sphere{R: testRadius, Relief: func(lng, lat float64) float64 {
			return 100 + 50*math.Sin(5000*lng)*math.Sin(5000*lat)
		}}
		res, err := Compute(square(0.03, 0.03, 0.01), rough, DefaultSettings(), nil)
		require.NoError(t, err)
		// The base mesh seeds six points; the sine field has to add far
		// more than ten over the passes.
		assert.Greater(t, res.PointCount, 16)
		assert.Greater(t, res.Attempts, 1)
		assert.Greater(t, res.Area, flatAreaOf(square(0.03, 0.03, 0.01)))
	})

	t.Run("budget exhaustion", func(t *testing.T) {
		rough := body.Sphere{R: testRadius, Relief: func(lng, lat float64) float64 {
			return 100 + 50*math.Sin(5000*lng)*math.Sin(5000*lat)
		}}
		s := DefaultSettings()
		s.MaxAttempt = 2
		s.MaxPoints = 50
		res, err := Compute(square(0.03, 0.03, 0.01), rough, s, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Attempts)
		assert.Greater(t, res.Area, 0.0)
	})
}

func TestComputeInvariances(t *testing.T) {
	corners := LoadFixture("ushape")

	t.Run("deterministic", func(t *testing.T) {
		a, err := Compute(corners, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		b, err := Compute(corners, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.Equal(t, a.Area, b.Area)
		assert.Equal(t, a.PosVolume, b.PosVolume)
		assert.Equal(t, len(a.Mesh), len(b.Mesh))
	})

	t.Run("corner order reversal", func(t *testing.T) {
		reversed := make([]body.LngLat, len(corners))
		for i, c := range corners {
			reversed[len(corners)-1-i] = c
		}
		a, err := Compute(corners, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		b, err := Compute(reversed, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.InEpsilon(t, a.Area, b.Area, 1e-9)
	})

	t.Run("rotation about the polar axis", func(t *testing.T) {
		const shift = 1.0
		rotated := make([]body.LngLat, len(corners))
		for i, c := range corners {
			rotated[i] = body.LngLat{Lng: c.Lng + shift, Lat: c.Lat}
		}
		a, err := Compute(corners, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		b, err := Compute(rotated, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.InEpsilon(t, a.Area, b.Area, 1e-6)
	})
}

func TestComputeFlags(t *testing.T) {
	t.Run("too few corners", func(t *testing.T) {
		res, err := Compute([]body.LngLat{{Lng: 0.1}, {Lng: 0.2}}, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.True(t, res.Flags.Degenerate)
		assert.Zero(t, res.Area)
	})

	t.Run("duplicate corners collapse", func(t *testing.T) {
		corners := []body.LngLat{
			{Lng: 0.03, Lat: 0.03},
			{Lng: 0.03, Lat: 0.03},
			{Lng: 0.04, Lat: 0.03},
			{Lng: 0.035, Lat: 0.04},
		}
		res, err := Compute(corners, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.False(t, res.Flags.Degenerate)
		assert.Greater(t, res.Area, 0.0)
	})

	t.Run("all corners coincide", func(t *testing.T) {
		corners := []body.LngLat{
			{Lng: 0.03, Lat: 0.03},
			{Lng: 0.03, Lat: 0.03},
			{Lng: 0.03, Lat: 0.03},
		}
		res, err := Compute(corners, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.True(t, res.Flags.Degenerate || res.Flags.NonFinite)
		assert.Zero(t, res.Area)
	})

	t.Run("oversize polygon", func(t *testing.T) {
		corners := []body.LngLat{
			{Lng: 0, Lat: 0},
			{Lng: 2.5, Lat: 0},
			{Lng: 1.2, Lat: 1.4},
		}
		res, err := Compute(corners, smoothSphere(), DefaultSettings(), nil)
		require.NoError(t, err)
		assert.True(t, res.Flags.TooLarge)
		assert.Zero(t, res.Area)
	})

	t.Run("corner off the map", func(t *testing.T) {
		nanAt := body.Sphere{R: testRadius, Relief: func(lng, lat float64) float64 {
			if lng < 0.035 {
				return math.NaN()
			}
			return 0
		}}
		corners := square(0.03, 0.03, 0.01)
		res, err := Compute(corners, nanAt, DefaultSettings(), nil)
		require.NoError(t, err)
		assert.True(t, res.Flags.NonFinite)
		assert.Zero(t, res.Area)
	})

	t.Run("interior gap does not poison the result", func(t *testing.T) {
		// Heights are defined at the corners but not in a band through
		// the middle; affected samples must not turn the totals NaN.
		gap := body.Sphere{R: testRadius, Relief: func(lng, lat float64) float64 {
			if lng > 0.0345 && lng < 0.0355 {
				return math.NaN()
			}
			return 100
		}}
		corners := square(0.03, 0.03, 0.01)
		res, err := Compute(corners, gap, DefaultSettings(), nil)
		require.NoError(t, err)
		assert.False(t, res.Flags.NonFinite)
		assert.False(t, math.IsNaN(res.Area))
		assert.Greater(t, res.Area, 0.0)
		assert.InEpsilon(t, flatAreaOf(corners), res.Area, 0.02)
	})
}

func TestComputeErrors(t *testing.T) {
	corners := square(0.03, 0.03, 0.01)

	t.Run("invalid settings", func(t *testing.T) {
		s := DefaultSettings()
		s.HeightDiff = 0.5
		_, err := Compute(corners, smoothSphere(), s, nil)
		assert.Error(t, err)
	})

	t.Run("nil body", func(t *testing.T) {
		_, err := Compute(corners, nil, DefaultSettings(), nil)
		assert.Error(t, err)
	})

	t.Run("bad radius", func(t *testing.T) {
		_, err := Compute(corners, body.Sphere{R: 0}, DefaultSettings(), nil)
		assert.Error(t, err)
	})
}

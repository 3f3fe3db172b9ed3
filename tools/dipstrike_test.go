package tools

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmoscout/csp-measurement-tools/body"
	"github.com/cosmoscout/csp-measurement-tools/measure"
)

// grid places a symmetric 3x3 patch of positions around a center point.
func grid(lng0, lat0, step float64) []body.LngLat {
	var out []body.LngLat
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			out = append(out, body.LngLat{
				Lng: lng0 + float64(i)*step,
				Lat: lat0 + float64(j)*step,
			})
		}
	}
	return out
}

func TestDipAndStrike(t *testing.T) {
	set := measure.DefaultSettings()

	t.Run("level terrain has no dip", func(t *testing.T) {
		smooth := body.Sphere{R: testRadius}
		d := &DipStrike{Positions: grid(0.02, 0.03, 0.001)}
		dip, _, ok := d.DipAndStrike(smooth, set)
		require.True(t, ok)
		assert.InDelta(t, 0, dip, 0.1)
	})

	t.Run("northward ramp", func(t *testing.T) {
		// Terrain rises to the north at a ten degree slope. The level
		// lines run east to west, and the westward strike convention puts
		// the strike at 270 degrees.
		slope := math.Tan(10 * math.Pi / 180)
		ramp := body.Sphere{R: testRadius, Relief: func(lng, lat float64) float64 {
			return slope * lat * testRadius
		}}
		d := &DipStrike{Positions: grid(0, 0, 0.001)}
		dip, strike, ok := d.DipAndStrike(ramp, set)
		require.True(t, ok)
		assert.InDelta(t, 10, dip, 0.3)
		assert.InDelta(t, 270, strike, 1)
	})

	t.Run("eastward ramp strikes north", func(t *testing.T) {
		slope := math.Tan(20 * math.Pi / 180)
		ramp := body.Sphere{R: testRadius, Relief: func(lng, lat float64) float64 {
			return slope * lng * testRadius
		}}
		d := &DipStrike{Positions: grid(0, 0, 0.001)}
		dip, strike, ok := d.DipAndStrike(ramp, set)
		require.True(t, ok)
		assert.InDelta(t, 20, dip, 0.5)
		// Level lines run north to south.
		assert.True(t, strike < 1 || strike > 359 || math.Abs(strike-180) < 1,
			"strike %v is not along the meridian", strike)
	})

	t.Run("height scale steepens the dip", func(t *testing.T) {
		slope := math.Tan(10 * math.Pi / 180)
		ramp := body.Sphere{R: testRadius, Relief: func(lng, lat float64) float64 {
			return slope * lat * testRadius
		}}
		scaled := set
		scaled.HeightScale = 3
		d := &DipStrike{Positions: grid(0, 0, 0.001)}
		dip, _, ok := d.DipAndStrike(ramp, scaled)
		require.True(t, ok)
		expected := math.Atan(3*slope) * 180 / math.Pi
		assert.InDelta(t, expected, dip, 0.5)
	})

	t.Run("too few positions", func(t *testing.T) {
		smooth := body.Sphere{R: testRadius}
		d := &DipStrike{Positions: []body.LngLat{{Lng: 0.1}, {Lng: 0.2}}}
		dip, strike, ok := d.DipAndStrike(smooth, set)
		assert.False(t, ok)
		assert.Zero(t, dip)
		assert.Zero(t, strike)
	})

	t.Run("collinear positions do not span a plane", func(t *testing.T) {
		smooth := body.Sphere{R: testRadius}
		d := &DipStrike{Positions: []body.LngLat{
			{Lng: 0.1, Lat: 0}, {Lng: 0.2, Lat: 0}, {Lng: 0.3, Lat: 0},
		}}
		_, _, ok := d.DipAndStrike(smooth, set)
		assert.False(t, ok)
	})
}

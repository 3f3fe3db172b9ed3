package measuretools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Smoke test. The internals are already tested.
func TestMeasurePolygon(t *testing.T) {
	corners := []LngLat{
		{Lng: 0.05, Lat: 0.04},
		{Lng: 0.06, Lat: 0.04},
		{Lng: 0.06, Lat: 0.05},
		{Lng: 0.05, Lat: 0.05},
	}

	result, err := MeasurePolygon(corners, Sphere{R: 1e6}, DefaultSettings(), nil)
	assert.NoError(t, err)
	assert.False(t, result.Flags.Any())
	// A hundredth of a radian square on a thousand kilometer sphere.
	assert.InEpsilon(t, 1e8, result.Area, 0.01)
}

package measure

import "github.com/pkg/errors"

// Settings tune the mesh refinement and the sampling of the measurement
// tools. The zero value is not usable; start from DefaultSettings.
type Settings struct {
	// HeightDiff is the maximal tolerated ratio between a sampled terrain
	// height and the linear interpolation along a mesh edge before the
	// edge is subdivided. Must be above 1.
	HeightDiff float64

	// MaxAttempt bounds the number of refinement passes.
	MaxAttempt int

	// MaxPoints bounds the total number of mesh points over all base
	// triangles.
	MaxPoints int

	// Sleekness is the minimal triangle angle in degrees; thinner
	// triangles get their long edge split.
	Sleekness float64

	// NumSamples is the number of interpolated points per segment used by
	// the path and ellipse tools.
	NumSamples int

	// HeightScale multiplies every terrain height read from the body.
	HeightScale float64
}

// DefaultSettings returns the tuning the tools ship with.
func DefaultSettings() Settings {
	return Settings{
		HeightDiff:  1.002,
		MaxAttempt:  10,
		MaxPoints:   1000,
		Sleekness:   15,
		NumSamples:  256,
		HeightScale: 1,
	}
}

// Validate reports the first unusable field.
func (s Settings) Validate() error {
	if s.HeightDiff <= 1 {
		return errors.Errorf("measure: HeightDiff must be above 1, got %v", s.HeightDiff)
	}
	if s.MaxAttempt < 1 {
		return errors.Errorf("measure: MaxAttempt must be at least 1, got %d", s.MaxAttempt)
	}
	if s.MaxPoints < 3 {
		return errors.Errorf("measure: MaxPoints must be at least 3, got %d", s.MaxPoints)
	}
	if s.Sleekness <= 0 || s.Sleekness >= 60 {
		return errors.Errorf("measure: Sleekness must be in (0, 60) degrees, got %v", s.Sleekness)
	}
	if s.NumSamples < 2 {
		return errors.Errorf("measure: NumSamples must be at least 2, got %d", s.NumSamples)
	}
	if s.HeightScale <= 0 {
		return errors.Errorf("measure: HeightScale must be positive, got %v", s.HeightScale)
	}
	return nil
}

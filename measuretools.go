// Measurement tools for planetary surfaces.
//
// This package lets you measure the surface area and the volume above and
// below the reference plane of a polygon drawn onto a terrain, along with
// the supporting tools: flags, elevation profile paths, ellipses and dip
// and strike planes.
package measuretools

import (
	"go.uber.org/zap"

	"github.com/cosmoscout/csp-measurement-tools/body"
	"github.com/cosmoscout/csp-measurement-tools/measure"
)

type LngLat = body.LngLat
type Body = body.Body
type Sphere = body.Sphere
type Settings = measure.Settings
type Result = measure.Result
type Flags = measure.Flags

// DefaultSettings returns the tuning the tools ship with.
func DefaultSettings() Settings {
	return measure.DefaultSettings()
}

// MeasurePolygon triangulates the polygon described by its corners, refines
// the triangulation against the body's terrain, and integrates surface area
// and volume.
//
// The corners must be given in outline order; both winding directions work.
// Self-intersecting outlines are detected on a best effort basis and
// reported through the result flags rather than an error. A nil logger is
// fine.
func MeasurePolygon(corners []LngLat, b Body, settings Settings, log *zap.Logger) (Result, error) {
	return measure.Compute(corners, b, settings, log)
}

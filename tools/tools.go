// Package tools implements the surface measurement tools that can be placed
// on a celestial body: location flags, elevation-profile paths, ellipses and
// dip-and-strike planes. The rendering side is out of scope; this package
// covers the tools' geometry, their JSON persistence and their change
// notifications.
package tools

import "github.com/cosmoscout/csp-measurement-tools/body"

// Kind tags the concrete type behind a Tool.
type Kind int

const (
	KindFlag Kind = iota
	KindPath
	KindEllipse
	KindDipStrike
)

func (k Kind) String() string {
	switch k {
	case KindFlag:
		return "flag"
	case KindPath:
		return "path"
	case KindEllipse:
		return "ellipse"
	case KindDipStrike:
		return "dipStrike"
	}
	return "unknown"
}

// Tool is the closed set of measurement tools. Only the types in this
// package implement it; consumers dispatch on Kind or type-switch.
type Tool interface {
	Kind() Kind

	// Type hint to seal the interface, and the shared metadata accessor.
	meta() *Meta
}

// Meta is the state every tool shares: where it is anchored, and how its
// marker is presented.
type Meta struct {
	// Center and Frame name the celestial anchor the tool sticks to.
	Center string
	Frame  string

	// Color is the marker color as r, g, b in [0, 1].
	Color [3]float64

	// ScaleDistance keeps the marker at a constant apparent size from
	// this observer distance; negative means unset.
	ScaleDistance float64

	Text      string
	Minimized bool
}

// Flag is a labeled pin at a single location.
type Flag struct {
	Meta
	LngLat body.LngLat
}

// Path is an ordered sequence of surface positions; it samples an elevation
// profile along the connecting segments.
type Path struct {
	Meta
	Positions []body.LngLat
}

// Ellipse is spanned by a center handle and two axis handles.
type Ellipse struct {
	Meta
	CenterHandle body.LngLat
	FirstHandle  body.LngLat
	SecondHandle body.LngLat
}

// DipStrike fits a plane through its positions and reports the plane's dip
// and strike angles.
type DipStrike struct {
	Meta
	Positions []body.LngLat
}

func (f *Flag) Kind() Kind      { return KindFlag }
func (p *Path) Kind() Kind      { return KindPath }
func (e *Ellipse) Kind() Kind   { return KindEllipse }
func (d *DipStrike) Kind() Kind { return KindDipStrike }

func (f *Flag) meta() *Meta      { return &f.Meta }
func (p *Path) meta() *Meta      { return &p.Meta }
func (e *Ellipse) meta() *Meta   { return &e.Meta }
func (d *DipStrike) meta() *Meta { return &d.Meta }

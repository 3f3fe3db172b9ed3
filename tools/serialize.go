package tools

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/cosmoscout/csp-measurement-tools/body"
)

// wireTool is the JSON envelope shared by all tools. Every field except the
// type tag is optional on input; unknown keys are ignored.
type wireTool struct {
	Type string `json:"type"`

	Center        *string     `json:"center,omitempty"`
	Frame         *string     `json:"frame,omitempty"`
	Color         *[3]float64 `json:"color,omitempty"`
	ScaleDistance *float64    `json:"scaleDistance,omitempty"`
	Text          *string     `json:"text,omitempty"`
	Minimized     *bool       `json:"minimized,omitempty"`

	LngLat    *[2]float64   `json:"lngLat,omitempty"`
	Positions *[][2]float64 `json:"positions,omitempty"`
	Handle0   *[2]float64   `json:"handle0,omitempty"`
	Handle1   *[2]float64   `json:"handle1,omitempty"`
	Handle2   *[2]float64   `json:"handle2,omitempty"`
}

// DecodeContext supplies the values used for keys a stored tool omits,
// typically the currently active body and observer settings.
type DecodeContext struct {
	Center        string
	Frame         string
	Color         [3]float64
	ScaleDistance float64
}

func pair(ll body.LngLat) *[2]float64 {
	return &[2]float64{ll.Lng, ll.Lat}
}

func unpair(p [2]float64) body.LngLat {
	return body.LngLat{Lng: p[0], Lat: p[1]}
}

// Encode serializes a tool with its type tag, so that Decode can restore
// the concrete type.
func Encode(t Tool) ([]byte, error) {
	m := t.meta()
	w := wireTool{
		Type:          t.Kind().String(),
		Center:        &m.Center,
		Frame:         &m.Frame,
		Color:         &m.Color,
		ScaleDistance: &m.ScaleDistance,
		Text:          &m.Text,
		Minimized:     &m.Minimized,
	}

	switch tool := t.(type) {
	case *Flag:
		w.LngLat = pair(tool.LngLat)
	case *Path:
		positions := make([][2]float64, len(tool.Positions))
		for i, ll := range tool.Positions {
			positions[i] = [2]float64{ll.Lng, ll.Lat}
		}
		w.Positions = &positions
	case *Ellipse:
		w.Handle0 = pair(tool.CenterHandle)
		w.Handle1 = pair(tool.FirstHandle)
		w.Handle2 = pair(tool.SecondHandle)
	case *DipStrike:
		positions := make([][2]float64, len(tool.Positions))
		for i, ll := range tool.Positions {
			positions[i] = [2]float64{ll.Lng, ll.Lat}
		}
		w.Positions = &positions
	}

	data, err := json.Marshal(w)
	return data, errors.Wrap(err, "failed to serialize tool")
}

// Decode restores a tool from its serialized form. Keys missing from the
// input fall back to the context.
func Decode(data []byte, ctx DecodeContext) (Tool, error) {
	var w wireTool
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "failed to parse tool")
	}

	m := Meta{
		Center:        ctx.Center,
		Frame:         ctx.Frame,
		Color:         ctx.Color,
		ScaleDistance: ctx.ScaleDistance,
	}
	if w.Center != nil {
		m.Center = *w.Center
	}
	if w.Frame != nil {
		m.Frame = *w.Frame
	}
	if w.Color != nil {
		m.Color = *w.Color
	}
	if w.ScaleDistance != nil {
		m.ScaleDistance = *w.ScaleDistance
	}
	if w.Text != nil {
		m.Text = *w.Text
	}
	if w.Minimized != nil {
		m.Minimized = *w.Minimized
	}

	positions := func() []body.LngLat {
		if w.Positions == nil {
			return nil
		}
		out := make([]body.LngLat, len(*w.Positions))
		for i, p := range *w.Positions {
			out[i] = unpair(p)
		}
		return out
	}

	switch w.Type {
	case KindFlag.String():
		f := &Flag{Meta: m}
		if w.LngLat != nil {
			f.LngLat = unpair(*w.LngLat)
		}
		return f, nil
	case KindPath.String():
		return &Path{Meta: m, Positions: positions()}, nil
	case KindEllipse.String():
		e := &Ellipse{Meta: m}
		if w.Handle0 != nil {
			e.CenterHandle = unpair(*w.Handle0)
		}
		if w.Handle1 != nil {
			e.FirstHandle = unpair(*w.Handle1)
		}
		if w.Handle2 != nil {
			e.SecondHandle = unpair(*w.Handle2)
		}
		return e, nil
	case KindDipStrike.String():
		return &DipStrike{Meta: m, Positions: positions()}, nil
	}
	return nil, errors.Errorf("unknown tool type %q", w.Type)
}

// EncodeAll and DecodeAll persist a whole tool collection as one JSON array.
func EncodeAll(ts []Tool) ([]byte, error) {
	raw := make([]json.RawMessage, len(ts))
	for i, t := range ts {
		data, err := Encode(t)
		if err != nil {
			return nil, err
		}
		raw[i] = data
	}
	data, err := json.Marshal(raw)
	return data, errors.Wrap(err, "failed to serialize tool list")
}

func DecodeAll(data []byte, ctx DecodeContext) ([]Tool, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse tool list")
	}
	tools := make([]Tool, len(raw))
	for i, entry := range raw {
		t, err := Decode(entry, ctx)
		if err != nil {
			return nil, err
		}
		tools[i] = t
	}
	return tools, nil
}

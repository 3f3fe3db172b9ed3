package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmoscout/csp-measurement-tools/body"
)

func testMeta() Meta {
	return Meta{
		Center:        "Mars",
		Frame:         "IAU_Mars",
		Color:         [3]float64{0.7, 0.9, 1},
		ScaleDistance: 6000,
		Text:          "crater rim",
		Minimized:     true,
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		tool Tool
	}{
		{"flag", &Flag{Meta: testMeta(), LngLat: body.LngLat{Lng: 0.3, Lat: -0.2}}},
		{"path", &Path{Meta: testMeta(), Positions: []body.LngLat{
			{Lng: 0.1, Lat: 0.1}, {Lng: 0.2, Lat: 0.15}, {Lng: 0.3, Lat: 0.1},
		}}},
		{"ellipse", &Ellipse{
			Meta:         testMeta(),
			CenterHandle: body.LngLat{Lng: 0.1, Lat: 0.2},
			FirstHandle:  body.LngLat{Lng: 0.11, Lat: 0.2},
			SecondHandle: body.LngLat{Lng: 0.1, Lat: 0.21},
		}},
		{"dip and strike", &DipStrike{Meta: testMeta(), Positions: []body.LngLat{
			{Lng: 0.1, Lat: 0.1}, {Lng: 0.2, Lat: 0.1}, {Lng: 0.15, Lat: 0.2},
		}}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, err := Encode(c.tool)
			require.NoError(t, err)

			decoded, err := Decode(data, DecodeContext{})
			require.NoError(t, err)
			assert.Equal(t, c.tool, decoded)

			// A second round trip reproduces the bytes exactly.
			again, err := Encode(decoded)
			require.NoError(t, err)
			assert.Equal(t, data, again)
		})
	}
}

func TestDecodeDefaults(t *testing.T) {
	ctx := DecodeContext{
		Center:        "Earth",
		Frame:         "IAU_Earth",
		Color:         [3]float64{1, 0, 0},
		ScaleDistance: 100,
	}

	t.Run("missing keys fall back to the context", func(t *testing.T) {
		tool, err := Decode([]byte(`{"type": "flag", "lngLat": [1.5, 0.5]}`), ctx)
		require.NoError(t, err)
		flag, ok := tool.(*Flag)
		require.True(t, ok)
		assert.Equal(t, "Earth", flag.Center)
		assert.Equal(t, "IAU_Earth", flag.Frame)
		assert.Equal(t, [3]float64{1, 0, 0}, flag.Color)
		assert.Equal(t, 100.0, flag.ScaleDistance)
		assert.Equal(t, 1.5, flag.LngLat.Lng)
		assert.False(t, flag.Minimized)
	})

	t.Run("present keys win over the context", func(t *testing.T) {
		tool, err := Decode([]byte(`{"type": "flag", "center": "Moon", "minimized": true}`), ctx)
		require.NoError(t, err)
		assert.Equal(t, "Moon", tool.(*Flag).Center)
		assert.True(t, tool.(*Flag).Minimized)
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		tool, err := Decode([]byte(`{"type": "path", "positions": [[0, 0]], "legacyId": 7}`), ctx)
		require.NoError(t, err)
		assert.Len(t, tool.(*Path).Positions, 1)
	})

	t.Run("unknown type fails", func(t *testing.T) {
		_, err := Decode([]byte(`{"type": "laser"}`), ctx)
		assert.Error(t, err)
	})

	t.Run("garbage fails", func(t *testing.T) {
		_, err := Decode([]byte(`{"type":`), ctx)
		assert.Error(t, err)
	})
}

func TestSerializeCollection(t *testing.T) {
	tools := []Tool{
		&Flag{Meta: testMeta(), LngLat: body.LngLat{Lng: 1, Lat: 1}},
		&DipStrike{Meta: testMeta()},
	}
	data, err := EncodeAll(tools)
	require.NoError(t, err)

	decoded, err := DecodeAll(data, DecodeContext{})
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, KindFlag, decoded[0].Kind())
	assert.Equal(t, KindDipStrike, decoded[1].Kind())
}

func TestSessionEvents(t *testing.T) {
	t.Run("text change is published once", func(t *testing.T) {
		s := NewSession(&Flag{})
		s.SetText("summit")
		s.SetText("summit")

		select {
		case ev := <-s.Events():
			assert.Equal(t, EventText, ev.Kind)
			assert.Equal(t, "summit", ev.Tool.(*Flag).Text)
		default:
			t.Fatal("expected a text event")
		}
		select {
		case <-s.Events():
			t.Fatal("unchanged text must not publish")
		default:
		}
	})

	t.Run("minimize and move", func(t *testing.T) {
		flag := &Flag{}
		s := NewSession(flag)
		s.SetMinimized(true)
		flag.LngLat = body.LngLat{Lng: 0.5}
		s.NotifyMoved()

		assert.Equal(t, EventMinimized, (<-s.Events()).Kind)
		assert.Equal(t, EventMoved, (<-s.Events()).Kind)
	})

	t.Run("slow consumers lose events instead of blocking", func(t *testing.T) {
		s := NewSession(&Flag{})
		for i := 0; i < 100; i++ {
			s.NotifyMoved()
		}
		// The publisher never blocked; the buffer holds what fits.
		assert.Len(t, s.Events(), 16)
	})
}

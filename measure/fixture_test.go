package measure

import (
	"embed"
	"log"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"

	"github.com/cosmoscout/csp-measurement-tools/body"
)

// This file parses the svg fixtures and outputs polygon outlines. This is
// not a full svg parser; it finds whatever the first polygon is and converts
// its points into lng/lat corners, one svg unit per milliradian. If anything
// goes wrong, it panics.
//
// Fixtures are available by name in this fixtures/ directory, sans extension.

//go:embed fixtures
var fixtures embed.FS

const fixtureScale = 1e-3

func LoadFixture(name string) []body.LngLat {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}

	defer fixture.Close()
	rootEl, err := svgparser.Parse(fixture, true)
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %v", name, err)
	}

	polygons := rootEl.FindAll("polygon")
	if len(polygons) != 1 {
		log.Fatalf("Expected exactly one polygon in fixture %q, found %d", name, len(polygons))
	}

	pointString := polygons[0].Attributes["points"]
	var corners []body.LngLat
	for _, pair := range strings.Split(pointString, " ") {
		if pair == "" {
			continue
		}
		coords := strings.Split(pair, ",")
		if len(coords) != 2 {
			log.Fatalf("Invalid point string %q", pair)
		}
		x, err := strconv.ParseFloat(coords[0], 64)
		if err != nil {
			log.Fatalf("Invalid x value %q: %v", coords[0], err)
		}
		y, err := strconv.ParseFloat(coords[1], 64)
		if err != nil {
			log.Fatalf("Invalid y value %q: %v", coords[1], err)
		}
		corners = append(corners, body.LngLat{Lng: x * fixtureScale, Lat: y * fixtureScale})
	}
	return corners
}

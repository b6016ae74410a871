package globe

import (
	"strings"
	"testing"
)

// A single triangle over western Africa, enough to exercise projection and
// scanline filling.
const worldDoc = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"name": "Testland"},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[0, 0], [20, 0], [10, 20], [0, 0]]]
			}
		}
	]
}`

func TestBuildBackground(t *testing.T) {
	img, err := buildBackground(strings.NewReader(worldDoc), 360, 180)
	if err != nil {
		t.Fatalf("buildBackground returned error: %v", err)
	}

	// Inside the triangle: (10E, 5N) projects to (190, 85).
	r, g, b, _ := img.At(190, 85).RGBA()
	lr, lg, lb, _ := landColor.RGBA()
	if r != lr || g != lg || b != lb {
		t.Errorf("pixel inside the polygon is not land colored")
	}

	// Far out in the Pacific stays ocean.
	r, g, b, _ = img.At(30, 90).RGBA()
	or, og, ob, _ := oceanColor.RGBA()
	if r != or || g != og || b != ob {
		t.Errorf("pixel far from the polygon should stay ocean colored")
	}
}

func TestBuildBackgroundBadJSON(t *testing.T) {
	if _, err := buildBackground(strings.NewReader("{not json"), 64, 32); err == nil {
		t.Fatal("expected error for malformed geojson")
	}
}

func TestPlainBackground(t *testing.T) {
	img := plainBackground(64, 32)
	r, g, b, a := img.At(10, 10).RGBA()
	or, og, ob, _ := oceanColor.RGBA()
	if r != or || g != og || b != ob || a != 0xffff {
		t.Errorf("plain background should be uniform ocean")
	}
}

func TestDrawLineClipped(t *testing.T) {
	img := plainBackground(32, 16)
	// A segment that starts off-canvas must not panic and must paint the
	// on-canvas portion.
	drawLine(img, -10, 8, 31, 8, outlineColor)
	r, g, b, _ := img.At(15, 8).RGBA()
	cr, cg, cb, _ := outlineColor.RGBA()
	if r != cr || g != cg || b != cb {
		t.Errorf("line pixel not painted")
	}
}

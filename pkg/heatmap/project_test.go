package heatmap

import (
	"math"
	"testing"
)

func TestProject(t *testing.T) {
	width, height := 1024, 512

	tests := []struct {
		lat, lon     float64
		wantX, wantY float64
	}{
		{0, 0, 512, 256},
		{90, -180, 0, 0},
		{-90, -180, 0, 512},
		{90, 180, 1024, 0},
		{45, -90, 256, 128},
		{-45, 90, 768, 384},
	}

	for _, tt := range tests {
		x, y := Project(tt.lat, tt.lon, width, height)
		if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
			t.Errorf("Project(%f, %f) = (%f, %f); want (%f, %f)", tt.lat, tt.lon, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	width, height := 1024, 512
	// One pixel's angular resolution in each axis.
	lonRes := 360.0 / float64(width)
	latRes := 180.0 / float64(height)

	for lat := -89.0; lat <= 89.0; lat += 17.0 {
		for lon := -179.0; lon <= 179.0; lon += 23.0 {
			x, y := Project(lat, lon, width, height)
			gotLat, gotLon := Unproject(x, y, width, height)
			if math.Abs(gotLat-lat) > latRes || math.Abs(gotLon-lon) > lonRes {
				t.Errorf("Unproject(Project(%f, %f)) = (%f, %f); drift exceeds one pixel", lat, lon, gotLat, gotLon)
			}
		}
	}
}

package heatmap

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestRenderMalformedInput(t *testing.T) {
	rz := NewRasterizer(128)
	_, err := rz.Render([]float64{0, 0, 0.5, 12})
	if err == nil {
		t.Fatal("expected error for sample length not divisible by 3")
	}
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *MalformedInputError, got %T: %v", err, err)
	}
	if malformed.Len != 4 {
		t.Errorf("MalformedInputError.Len = %d; want 4", malformed.Len)
	}
}

func TestRenderEmptyInput(t *testing.T) {
	rz := NewRasterizer(128)
	r, err := rz.Render(nil)
	if err != nil {
		t.Fatalf("Render(nil) returned error: %v", err)
	}
	if r.Width != 128 || r.Height != 64 {
		t.Errorf("raster dimensions = %dx%d; want 128x64", r.Width, r.Height)
	}
	for i := 3; i < len(r.Pix); i += 4 {
		if r.Pix[i] != 0 {
			t.Fatalf("empty input produced non-transparent pixel at offset %d", i)
		}
	}
}

func TestRenderEquatorPoint(t *testing.T) {
	rz := NewRasterizer(256)
	r, err := rz.Render([]float64{0, 0, 0.5})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	// (0, 0) is mid-Atlantic and passes the ocean filter; the splat lands at
	// the raster center.
	red, green, blue, alpha := r.At(128, 64)
	if alpha == 0 {
		t.Fatal("center pixel is transparent; expected a splat at the equator/prime meridian")
	}
	if green <= red || green <= blue {
		t.Errorf("magnitude 0.5 should be green dominant, got (%d,%d,%d)", red, green, blue)
	}
}

func TestRenderExcludedSea(t *testing.T) {
	rz := NewRasterizer(256)
	r, err := rz.Render([]float64{40, 20, 0.8})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	for i := 3; i < len(r.Pix); i += 4 {
		if r.Pix[i] != 0 {
			t.Fatal("Mediterranean sample must be rejected; raster should stay fully transparent")
		}
	}
}

func TestRenderLowMagnitudeDropped(t *testing.T) {
	rz := NewRasterizer(128)
	r, err := rz.Render([]float64{0, 0, 0.01})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	for i := 3; i < len(r.Pix); i += 4 {
		if r.Pix[i] != 0 {
			t.Fatal("magnitude at the 0.01 floor must be dropped")
		}
	}
}

func TestRenderOffRasterSkipped(t *testing.T) {
	rz := NewRasterizer(128)
	r, err := rz.Render([]float64{120, 400, 0.9})
	if err != nil {
		t.Fatalf("out-of-range lat/lon must not be fatal, got: %v", err)
	}
	for i := 3; i < len(r.Pix); i += 4 {
		if r.Pix[i] != 0 {
			t.Fatal("off-raster sample must be a no-op")
		}
	}
}

func TestRenderAntimeridianSeam(t *testing.T) {
	rz := NewRasterizer(256)

	// lon 180 and lon -180 are the same meridian; both must land on the
	// seam pixel column instead of being skipped as off-raster.
	east, err := rz.Render([]float64{0, 180, 0.5})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	west, err := rz.Render([]float64{0, -180, 0.5})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	_, _, _, alpha := east.At(0, 64)
	if alpha == 0 {
		t.Error("lon 180 sample should splat at the seam, not be dropped")
	}
	if !bytes.Equal(east.Pix, west.Pix) {
		t.Error("lon 180 and lon -180 must produce identical rasters")
	}
}

func TestRenderWesternEdgeNotSnapped(t *testing.T) {
	rz := NewRasterizer(256)

	// lon -180.5 projects to x just below zero; truncation toward zero must
	// not pull it onto pixel column 0.
	r, err := rz.Render([]float64{0, -180.5, 0.9})
	if err != nil {
		t.Fatalf("out-of-range lon must not be fatal, got: %v", err)
	}
	for i := 3; i < len(r.Pix); i += 4 {
		if r.Pix[i] != 0 {
			t.Fatal("sample just west of the raster must be skipped, not snapped onto the edge")
		}
	}
}

func TestRenderScreenBlending(t *testing.T) {
	rz := NewRasterizer(256)

	single, err := rz.Render([]float64{0, 0, 0.9})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	stacked, err := rz.Render([]float64{0, 0, 0.2, 0, 0, 0.9})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	_, _, _, singleAlpha := single.At(128, 64)
	_, _, _, stackedAlpha := stacked.At(128, 64)
	if stackedAlpha <= singleAlpha {
		t.Errorf("stacked splats must brighten under screen blending: stacked alpha %d <= single alpha %d", stackedAlpha, singleAlpha)
	}
}

func TestRenderMagnitudeMonotonic(t *testing.T) {
	rz := NewRasterizer(256)

	low, err := rz.Render([]float64{0, 0, 0.3})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	high, err := rz.Render([]float64{0, 0, 0.6})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	_, _, _, lowAlpha := low.At(128, 64)
	_, _, _, highAlpha := high.At(128, 64)
	if highAlpha < lowAlpha {
		t.Errorf("higher magnitude must not dim the splat: alpha %d < %d", highAlpha, lowAlpha)
	}
}

func BenchmarkRender(b *testing.B) {
	rz := NewRasterizer(1024)
	rng := rand.New(rand.NewSource(1))

	// Deep Atlantic scatter so every sample survives the ocean filter.
	samples := make([]float64, 0, 3000)
	for i := 0; i < 1000; i++ {
		samples = append(samples,
			rng.Float64()*100-50,  // lat in [-50, 50)
			rng.Float64()*17-25,   // lon in [-25, -8)
			rng.Float64()*0.9+0.1, // magnitude in [0.1, 1.0)
		)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := rz.Render(samples); err != nil {
			b.Fatal(err)
		}
	}
}

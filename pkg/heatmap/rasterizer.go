package heatmap

import (
	"fmt"
	"log"
	"math"
)

// MalformedInputError reports a sample sequence whose length is not a
// multiple of three. The renderer fails fast instead of silently misreading
// the trailing partial triplet.
type MalformedInputError struct {
	Len int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("heatmap: sample sequence length %d is not a multiple of 3", e.Len)
}

// Rasterizer renders sample batches into equirectangular rasters. A
// Rasterizer is cheap and stateless between calls apart from the shared
// ocean-mask cache; each Render owns its raster exclusively until it
// returns. It holds no queue and no internal concurrency: callers that need
// background rendering run Render on their own goroutine and must not share
// one in-flight raster.
type Rasterizer struct {
	Width      int
	classifier *Classifier
}

// NewRasterizer creates a rasterizer producing Width×Width/2 rasters with
// the default ocean region tables.
func NewRasterizer(width int) *Rasterizer {
	return &Rasterizer{Width: width, classifier: NewClassifier()}
}

// NewRasterizerWithClassifier creates a rasterizer with a caller-supplied
// ocean classifier.
func NewRasterizerWithClassifier(width int, c *Classifier) *Rasterizer {
	return &Rasterizer{Width: width, classifier: c}
}

// Render converts a flat stride-3 sequence [lat0, lon0, mag0, lat1, ...]
// into a finished raster: every sample is projected, filtered against the
// ocean mask, splatted as a radial gradient, and the splatted regions are
// box-blurred. Samples with magnitude <= 0.01 or outside the ocean mask are
// dropped silently; that is filtering, not an error. Out-of-range lat/lon
// project off the raster and are skipped with a single warning per call.
func (rz *Rasterizer) Render(samples []float64) (*Raster, error) {
	if len(samples)%3 != 0 {
		return nil, &MalformedInputError{Len: len(samples)}
	}

	r := NewRaster(rz.Width)
	mask := maskFor(rz.classifier, r.Width, r.Height)

	var centers [][2]int
	warned := false
	for i := 0; i+2 < len(samples); i += 3 {
		lat, lon, mag := samples[i], samples[i+1], samples[i+2]
		if mag <= minMagnitude {
			continue
		}
		x, y := Project(lat, lon, r.Width, r.Height)
		if x == float64(r.Width) {
			// lon 180 is the antimeridian seam, the same meridian as -180.
			x = 0
		}
		px, py := int(math.Floor(x)), int(math.Floor(y))
		if y == float64(r.Height) {
			// lat -90 sits exactly on the bottom raster edge.
			py = r.Height - 1
		}
		if px < 0 || px >= r.Width || py < 0 || py >= r.Height {
			if !warned {
				log.Printf("[heatmap] WARN: sample (%.2f, %.2f) projects off-raster, skipping", lat, lon)
				warned = true
			}
			continue
		}
		if !mask.At(px, py) {
			continue
		}
		splat(r, x, y, mag)
		centers = append(centers, [2]int{px, py})
	}

	blurSplatRegions(r, centers)
	return r, nil
}

package heatmap

import (
	"math"
)

// minMagnitude is the floor below which samples contribute nothing visible
// and are dropped before splatting.
const minMagnitude = 0.01

// gradientStop describes one stop of the radial falloff: frac is the
// distance from the center as a fraction of the radius, alpha the gradient
// opacity at that distance before scaling by the splat alpha.
type gradientStop struct {
	frac  float64
	alpha float64
}

// Three stops: opaque core, dimmed shoulder at 70% radius, transparent edge.
var splatStops = []gradientStop{
	{frac: 0, alpha: 1.0},
	{frac: 0.7, alpha: 0.3},
	{frac: 1.0, alpha: 0},
}

func gradientAlpha(frac float64) float64 {
	if frac >= 1 {
		return 0
	}
	for i := 1; i < len(splatStops); i++ {
		if frac <= splatStops[i].frac {
			lo, hi := splatStops[i-1], splatStops[i]
			t := (frac - lo.frac) / (hi.frac - lo.frac)
			return lo.alpha + t*(hi.alpha-lo.alpha)
		}
	}
	return 0
}

// splat draws one radial gradient centered at the projected pixel position.
// Compositing is screen blending so overlapping splats brighten instead of
// averaging; stacked high-magnitude points never darken. The alpha channel
// is screened the same way, accumulating coverage toward opaque.
func splat(r *Raster, cx, cy, magnitude float64) {
	radius := math.Min(2+magnitude*2, 4)
	alpha := math.Min(magnitude*2, 0.9)
	cr, cg, cb := ColorFor(magnitude)

	x0 := int(math.Floor(cx - radius))
	x1 := int(math.Ceil(cx + radius))
	y0 := int(math.Floor(cy - radius))
	y1 := int(math.Ceil(cy + radius))

	for y := y0; y <= y1; y++ {
		if y < 0 || y >= r.Height {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= r.Width {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			dist := math.Sqrt(dx*dx + dy*dy)
			a := gradientAlpha(dist/radius) * alpha
			if a <= 0 {
				continue
			}
			off := r.offset(x, y)
			r.Pix[off] = screen(r.Pix[off], float64(cr)*a)
			r.Pix[off+1] = screen(r.Pix[off+1], float64(cg)*a)
			r.Pix[off+2] = screen(r.Pix[off+2], float64(cb)*a)
			r.Pix[off+3] = screen(r.Pix[off+3], 255*a)
		}
	}
}

// screen composites a source contribution over a destination byte:
// out = 255 - (255-dst)*(255-src)/255. Monotonic in both operands and never
// below dst, which is what makes overlap accumulate brightness.
func screen(dst byte, src float64) byte {
	out := 255 - (255-float64(dst))*(255-src)/255
	if out > 255 {
		out = 255
	}
	return byte(out)
}

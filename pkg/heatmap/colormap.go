package heatmap

import (
	"image/color"
)

// colorSegment is one piecewise-linear span of the chlorophyll ramp.
// Adjacent segments share endpoint colors so the ramp is continuous at the
// breakpoints.
type colorSegment struct {
	start float64
	width float64
	from  color.RGBA
	to    color.RGBA
}

// The ramp runs deep blue for oligotrophic water up through cyan and green
// to yellow/red at bloom-level concentrations.
var colorSegments = []colorSegment{
	{start: 0.0, width: 0.1, from: color.RGBA{R: 0, G: 0, B: 128}, to: color.RGBA{R: 0, G: 180, B: 255}},
	{start: 0.1, width: 0.2, from: color.RGBA{R: 0, G: 180, B: 255}, to: color.RGBA{R: 0, G: 200, B: 80}},
	{start: 0.3, width: 0.4, from: color.RGBA{R: 0, G: 200, B: 80}, to: color.RGBA{R: 255, G: 220, B: 0}},
	{start: 0.7, width: 0.3, from: color.RGBA{R: 255, G: 220, B: 0}, to: color.RGBA{R: 255, G: 40, B: 0}},
}

// ColorFor maps a magnitude to its ramp color. Magnitudes are clamped to
// [0, 1] before lookup: the upstream converters already clip to that range,
// so extrapolating past the top segment would only ever render artifacts.
func ColorFor(magnitude float64) (red, green, blue byte) {
	if magnitude < 0 {
		magnitude = 0
	}
	if magnitude > 1 {
		magnitude = 1
	}
	seg := colorSegments[len(colorSegments)-1]
	for _, s := range colorSegments {
		if magnitude < s.start+s.width {
			seg = s
			break
		}
	}
	t := (magnitude - seg.start) / seg.width
	red = lerpChannel(seg.from.R, seg.to.R, t)
	green = lerpChannel(seg.from.G, seg.to.G, t)
	blue = lerpChannel(seg.from.B, seg.to.B, t)
	return red, green, blue
}

// lerpChannel interpolates one channel, floor-truncating to an integer.
func lerpChannel(from, to uint8, t float64) byte {
	v := float64(from) + t*(float64(to)-float64(from))
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return byte(v)
}

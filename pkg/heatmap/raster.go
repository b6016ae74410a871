// Package heatmap converts sparse lat/lon/magnitude samples into a masked,
// blurred, color-mapped equirectangular raster suitable for projection onto
// a globe. The pipeline is pure CPU work over an in-memory buffer: project,
// filter against the ocean mask, splat, blur, return.
package heatmap

import (
	"image"
)

// Raster is a W×H RGBA pixel buffer in equirectangular layout. Height is
// always Width/2 so the raster spans the full 360°×180° coverage. Pix is
// row-major, top-to-bottom, 4 bytes per pixel. The alpha channel encodes
// coverage contribution, not transparency of a separate layer.
type Raster struct {
	Width  int
	Height int
	Pix    []byte
}

// NewRaster allocates a fully transparent raster. The height is derived from
// the width to enforce the 2:1 equirectangular aspect ratio.
func NewRaster(width int) *Raster {
	height := width / 2
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

func (r *Raster) offset(x, y int) int {
	return (y*r.Width + x) * 4
}

// At returns the RGBA bytes at the given pixel.
func (r *Raster) At(x, y int) (red, green, blue, alpha byte) {
	off := r.offset(x, y)
	return r.Pix[off], r.Pix[off+1], r.Pix[off+2], r.Pix[off+3]
}

// Image wraps the raster in an image.RGBA sharing the same pixel memory,
// consumable by any texture upload or PNG encoder. Callers receive the
// raster after Render returns and must treat it as read-only.
func (r *Raster) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

package globe

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"sort"

	geojson "github.com/paulmach/go.geojson"

	"github.com/reecebuckle/ocean-globe/pkg/heatmap"
)

var (
	oceanColor   = color.RGBA{8, 14, 26, 255}
	landColor    = color.RGBA{24, 30, 38, 255}
	outlineColor = color.RGBA{38, 48, 60, 255}
)

// buildBackground rasterizes the land polygons onto a dark ocean in the same
// equirectangular frame the heatmap uses, so land and the ocean mask line up
// under the overlay.
func buildBackground(world io.Reader, width, height int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{oceanColor}, image.Point{}, draw.Src)

	raw, err := io.ReadAll(world)
	if err != nil {
		return nil, fmt.Errorf("reading world geojson: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing world geojson: %w", err)
	}

	for _, f := range fc.Features {
		if f.Geometry.IsPolygon() {
			fillPolygon(img, f.Geometry.Polygon, landColor)
			for _, ring := range f.Geometry.Polygon {
				drawRing(img, ring, outlineColor)
			}
		} else if f.Geometry.IsMultiPolygon() {
			for _, poly := range f.Geometry.MultiPolygon {
				fillPolygon(img, poly, landColor)
				for _, ring := range poly {
					drawRing(img, ring, outlineColor)
				}
			}
		}
	}
	return img, nil
}

// plainBackground is the fallback when no world outline is available: bare
// ocean, no coastlines.
func plainBackground(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{oceanColor}, image.Point{}, draw.Src)
	return img
}

// fillPolygon scanline-fills a geojson polygon (outer ring plus holes) after
// projecting each vertex. Geojson coordinates are [lon, lat].
func fillPolygon(img *image.RGBA, rings [][][]float64, c color.RGBA) {
	if len(rings) == 0 {
		return
	}
	width := img.Rect.Dx()
	height := img.Rect.Dy()

	type point struct{ x, y float64 }
	projectedRings := make([][]point, len(rings))
	minY, maxY := float64(height), 0.0
	for i, ring := range rings {
		projectedRings[i] = make([]point, len(ring))
		for j, p := range ring {
			x, y := heatmap.Project(p[1], p[0], width, height)
			projectedRings[i][j] = point{x, y}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	for y := int(minY); y <= int(maxY); y++ {
		if y < 0 || y >= height {
			continue
		}
		var nodes []int
		fy := float64(y)
		for _, ring := range projectedRings {
			for i := 0; i < len(ring); i++ {
				j := (i + 1) % len(ring)
				if (ring[i].y < fy && ring[j].y >= fy) || (ring[j].y < fy && ring[i].y >= fy) {
					nodeX := ring[i].x + (fy-ring[i].y)/(ring[j].y-ring[i].y)*(ring[j].x-ring[i].x)
					nodes = append(nodes, int(nodeX))
				}
			}
		}
		sort.Ints(nodes)
		for i := 0; i < len(nodes)-1; i += 2 {
			xs, xe := nodes[i], nodes[i+1]
			if xs < 0 {
				xs = 0
			}
			if xe >= width {
				xe = width - 1
			}
			for x := xs; x < xe; x++ {
				off := y*img.Stride + x*4
				img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = c.R, c.G, c.B, 255
			}
		}
	}
}

func drawRing(img *image.RGBA, coords [][]float64, c color.RGBA) {
	width := img.Rect.Dx()
	height := img.Rect.Dy()
	for i := 0; i < len(coords)-1; i++ {
		x1, y1 := heatmap.Project(coords[i][1], coords[i][0], width, height)
		x2, y2 := heatmap.Project(coords[i+1][1], coords[i+1][0], width, height)
		drawLine(img, int(x1), int(y1), int(x2), int(y2), c)
	}
}

// drawLine is a plain Bresenham segment clipped to the image.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	width := img.Rect.Dx()
	height := img.Rect.Dy()
	dx, dy := math.Abs(float64(x2-x1)), math.Abs(float64(y2-y1))
	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}
	errAcc := dx - dy
	for {
		if x1 >= 0 && x1 < width && y1 >= 0 && y1 < height {
			off := y1*img.Stride + x1*4
			img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = c.R, c.G, c.B, 255
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * errAcc
		if e2 > -dy {
			errAcc -= dy
			x1 += sx
		}
		if e2 < dx {
			errAcc += dx
			y1 += sy
		}
	}
}

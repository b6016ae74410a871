package globe

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/reecebuckle/ocean-globe/pkg/heatmap"
)

// InitPulseTexture builds the soft ring texture used for the latest shark
// positions. Drawing a prerendered radial texture scaled per pulse is much
// cheaper than rasterizing circles every frame.
func (e *Engine) InitPulseTexture() {
	size := 128
	e.pulseImage = ebiten.NewImage(size, size)
	pixels := make([]byte, size*size*4)
	center, maxDist := float64(size)/2.0, float64(size)/2.0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-center, float64(y)-center
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist < maxDist {
				val, outer, inner := 0.0, 0.9, 0.8
				if dist > maxDist*outer {
					val = math.Cos(((dist - maxDist*(outer+((1-outer)/2))) / (maxDist * ((1 - outer) / 2))) * (math.Pi / 2))
				} else if dist > maxDist*inner {
					val = math.Sin(((dist - maxDist*inner) / (maxDist * (outer - inner))) * (math.Pi / 2))
				}
				pixels[(y*size+x)*4+3] = uint8(val * 255)
				pixels[(y*size+x)*4+0], pixels[(y*size+x)*4+1], pixels[(y*size+x)*4+2] = 255, 255, 255
			}
		}
	}
	e.pulseImage.WritePixels(pixels)
}

// trackWindowEnd maps the animation clock onto the dataset's time range.
func (e *Engine) trackWindowEnd() time.Time {
	span := e.trackTo.Sub(e.trackFrom)
	return e.trackFrom.Add(time.Duration(float64(span) * e.trackClock))
}

// drawTracks draws each shark's polyline up to the animation window and a
// glowing pulse on its latest fix. Pulses use additive blending so sharks
// converging on the same feeding ground brighten rather than occlude.
func (e *Engine) drawTracks(screen *ebiten.Image) {
	window := e.trackWindowEnd()

	for _, s := range e.tracks.Sharks {
		var prevX, prevY float32
		var havePrev bool
		var lastX, lastY float64

		for _, p := range s.Points {
			if p.Time.After(window) {
				break
			}
			x, y := heatmap.Project(p.Lat, p.Lon, e.Width, e.Height)
			if havePrev {
				vector.StrokeLine(screen, prevX, prevY, float32(x), float32(y), 1.5, trackColor(s.Color, 0.55), true)
			}
			prevX, prevY = float32(x), float32(y)
			havePrev = true
			lastX, lastY = x, y
		}

		if havePrev && e.pulseImage != nil {
			e.drawPulse(screen, lastX, lastY, s.Color)
		}
	}
}

func (e *Engine) drawPulse(screen *ebiten.Image, x, y float64, c [3]uint8) {
	imgW := e.pulseImage.Bounds().Dx()
	halfW := float64(imgW) / 2
	const pulseSize = 14.0

	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendLighter
	scale := pulseSize / float64(imgW)
	op.GeoM.Translate(-halfW, -halfW)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	const alpha = 0.8
	op.ColorScale.Scale(
		float32(c[0])/255.0*alpha,
		float32(c[1])/255.0*alpha,
		float32(c[2])/255.0*alpha,
		alpha,
	)
	screen.DrawImage(e.pulseImage, op)
}

// trackColor premultiplies the shark color by the line alpha.
func trackColor(c [3]uint8, alpha float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c[0]) * alpha),
		G: uint8(float64(c[1]) * alpha),
		B: uint8(float64(c[2]) * alpha),
		A: uint8(255 * alpha),
	}
}

// Package globe is the interactive shell around the heatmap pipeline: an
// ebiten viewer that composites rendered chlorophyll rasters and shark
// tracks over an equirectangular world background.
package globe

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/reecebuckle/ocean-globe/pkg/geodata"
	"github.com/reecebuckle/ocean-globe/pkg/heatmap"
)

// trackLoop is how long one full sweep of the track animation takes.
const trackLoop = 45 * time.Second

type Engine struct {
	Width, Height int

	// HeatmapOpacity blends the chlorophyll layer over the base globe,
	// 0 transparent to 1 opaque.
	HeatmapOpacity float64

	FrameCaptureDir string

	rasterizer *heatmap.Rasterizer
	datasets   []geodata.Dataset
	current    int

	bgImage    *ebiten.Image
	heatImage  *ebiten.Image
	pulseImage *ebiten.Image

	// One render in flight at a time; the finished raster is uploaded as a
	// texture on the next Update tick.
	renderMu      sync.Mutex
	rendering     bool
	pendingRaster *heatmap.Raster
	renderedName  string

	tracks     *geodata.TrackSet
	trackFrom  time.Time
	trackTo    time.Time
	trackClock float64
	showTracks bool

	fontSource *text.GoTextFaceSource
	monoSource *text.GoTextFaceSource

	captureRequested bool
}

func NewEngine(width, height int) *Engine {
	s, _ := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	m, _ := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))

	return &Engine{
		Width:          width,
		Height:         height,
		HeatmapOpacity: 0.85,
		rasterizer:     heatmap.NewRasterizer(width),
		fontSource:     s,
		monoSource:     m,
	}
}

// SetDatasets installs the chlorophyll series to cycle through and kicks
// off the first render.
func (e *Engine) SetDatasets(datasets []geodata.Dataset) {
	e.datasets = datasets
	e.current = 0
	e.startRender()
}

// SetTracks installs the shark tracking layer.
func (e *Engine) SetTracks(ts *geodata.TrackSet) {
	e.tracks = ts
	e.trackFrom, e.trackTo = ts.TimeRange()
	e.showTracks = true
}

// InitBackground builds the world background, drawing coastlines when a
// geojson outline is supplied and bare ocean otherwise.
func (e *Engine) InitBackground(world *bytes.Reader) error {
	if world == nil {
		e.bgImage = ebiten.NewImageFromImage(plainBackground(e.Width, e.Height))
		return nil
	}
	img, err := buildBackground(world, e.Width, e.Height)
	if err != nil {
		return err
	}
	e.bgImage = ebiten.NewImageFromImage(img)
	return nil
}

// startRender renders the current dataset on its own goroutine. The
// pipeline itself is synchronous and single threaded; the engine just keeps
// it off the frame loop and refuses to start a second render while one is
// in flight.
func (e *Engine) startRender() {
	if len(e.datasets) == 0 {
		return
	}
	e.renderMu.Lock()
	if e.rendering {
		e.renderMu.Unlock()
		return
	}
	e.rendering = true
	d := e.datasets[e.current]
	e.renderMu.Unlock()

	go func() {
		start := time.Now()
		raster, err := e.rasterizer.Render(d.Samples)
		e.renderMu.Lock()
		defer e.renderMu.Unlock()
		e.rendering = false
		if err != nil {
			log.Printf("[globe] render of %q failed: %v", d.Name, err)
			return
		}
		e.pendingRaster = raster
		e.renderedName = d.Name
		log.Printf("[globe] rendered %q (%d points) in %v", d.Name, d.Points(), time.Since(start))
	}()
}

func (e *Engine) Update() error {
	// Upload a finished raster on the frame loop.
	e.renderMu.Lock()
	if e.pendingRaster != nil {
		if e.heatImage == nil {
			e.heatImage = ebiten.NewImage(e.pendingRaster.Width, e.pendingRaster.Height)
		}
		e.heatImage.WritePixels(e.pendingRaster.Pix)
		e.pendingRaster = nil
	}
	e.renderMu.Unlock()

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		e.cycleDataset(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		e.cycleDataset(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) && e.tracks != nil {
		e.showTracks = !e.showTracks
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		e.captureRequested = true
	}

	if e.showTracks && e.tracks != nil {
		e.trackClock += 1.0 / (trackLoop.Seconds() * float64(ebiten.TPS()))
		if e.trackClock > 1 {
			e.trackClock = 0
		}
	}
	return nil
}

func (e *Engine) cycleDataset(delta int) {
	if len(e.datasets) == 0 {
		return
	}
	e.current = (e.current + delta + len(e.datasets)) % len(e.datasets)
	e.startRender()
}

func (e *Engine) Draw(screen *ebiten.Image) {
	if e.bgImage != nil {
		screen.DrawImage(e.bgImage, nil)
	}

	if e.heatImage != nil {
		op := &ebiten.DrawImageOptions{}
		op.ColorScale.ScaleAlpha(float32(e.HeatmapOpacity))
		screen.DrawImage(e.heatImage, op)
	}

	if e.showTracks && e.tracks != nil {
		e.drawTracks(screen)
	}

	e.drawLegend(screen)
	e.drawStatus(screen)

	if e.captureRequested {
		e.captureRequested = false
		e.captureFrame(screen, e.currentName(), time.Now())
	}
}

func (e *Engine) Layout(w, h int) (int, int) { return e.Width, e.Height }

func (e *Engine) currentName() string {
	if len(e.datasets) == 0 {
		return "empty"
	}
	return e.datasets[e.current].Name
}

// drawLegend renders the magnitude ramp with labels along the lower left.
func (e *Engine) drawLegend(screen *ebiten.Image) {
	margin, fontSize := 40.0, 14.0
	swatch := 18.0
	lx := margin
	ly := float64(e.Height) - margin - swatch

	stops := []struct {
		Label     string
		Magnitude float64
	}{
		{"0.0", 0.0},
		{"0.1", 0.1},
		{"0.3", 0.3},
		{"0.7", 0.7},
		{"1.0", 1.0},
	}

	for i, s := range stops {
		r, g, b := heatmap.ColorFor(s.Magnitude)
		x := float32(lx + float64(i)*(swatch+34))
		vector.DrawFilledRect(screen, x, float32(ly), float32(swatch), float32(swatch), color.RGBA{r, g, b, 255}, false)

		if e.monoSource != nil {
			face := &text.GoTextFace{Source: e.monoSource, Size: fontSize}
			top := &text.DrawOptions{}
			top.GeoM.Translate(float64(x)+swatch+4, ly+(swatch-fontSize)/2)
			top.ColorScale.Scale(1, 1, 1, 0.8)
			text.Draw(screen, s.Label, face, top)
		}
	}

	if e.fontSource != nil {
		face := &text.GoTextFace{Source: e.fontSource, Size: fontSize}
		top := &text.DrawOptions{}
		top.GeoM.Translate(lx, ly-fontSize-8)
		top.ColorScale.Scale(1, 1, 1, 0.8)
		text.Draw(screen, "Chlorophyll concentration (normalized)", face, top)
	}
}

// drawStatus renders the current period and layer state in the top left.
func (e *Engine) drawStatus(screen *ebiten.Image) {
	if e.monoSource == nil {
		return
	}
	margin, fontSize := 40.0, 16.0
	face := &text.GoTextFace{Source: e.monoSource, Size: fontSize}

	lines := []string{e.currentName()}
	if len(e.datasets) > 0 {
		lines = append(lines, fmt.Sprintf("%d samples", e.datasets[e.current].Points()))
	}
	e.renderMu.Lock()
	if e.rendering {
		lines = append(lines, "rendering...")
	}
	e.renderMu.Unlock()
	if e.showTracks && e.tracks != nil {
		window := e.trackWindowEnd()
		km := e.tracks.TotalDistanceKm(e.trackFrom, window)
		lines = append(lines, fmt.Sprintf("%d sharks, %.0f km through %s", len(e.tracks.Sharks), km, window.Format("2006-01-02")))
	}

	for i, line := range lines {
		top := &text.DrawOptions{}
		top.GeoM.Translate(margin, margin+float64(i)*(fontSize+6))
		top.ColorScale.Scale(1, 1, 1, 0.85)
		text.Draw(screen, line, face, top)
	}
}

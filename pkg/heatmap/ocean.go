package heatmap

import (
	"sync"
)

// Box is a named geographic bounding box. The classifier tables are plain
// data so individual regions can be tested in isolation and the whole table
// swapped for real bathymetry later.
type Box struct {
	Name   string
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// Contains reports whether the point falls inside the box, inclusive on all
// edges.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// DefaultExclusions are enclosed or shallow seas where chlorophyll samples
// are rejected even though they sit between the deep-ocean boxes.
var DefaultExclusions = []Box{
	{Name: "Mediterranean and Black Sea", LatMin: 30, LatMax: 48, LonMin: -6, LonMax: 45},
	{Name: "Red Sea and Persian Gulf", LatMin: 12, LatMax: 30, LonMin: 32, LonMax: 60},
	{Name: "Baltic and North Sea", LatMin: 50, LatMax: 66, LonMin: -4, LonMax: 30},
	{Name: "Sea of Japan and East China Sea", LatMin: 24, LatMax: 52, LonMin: 117, LonMax: 142},
	{Name: "Hudson Bay", LatMin: 51, LatMax: 65, LonMin: -95, LonMax: -75},
	{Name: "Great Lakes", LatMin: 41, LatMax: 49, LonMin: -93, LonMax: -76},
	{Name: "Caribbean and Gulf of Mexico", LatMin: 9, LatMax: 31, LonMin: -98, LonMax: -60},
}

// DefaultInclusions are the deep-ocean basins eligible for rendering. This
// is a coarse lookup, not bathymetry; points outside every box are rejected.
var DefaultInclusions = []Box{
	{Name: "Eastern Pacific", LatMin: -60, LatMax: 60, LonMin: -180, LonMax: -100},
	{Name: "Western Pacific", LatMin: -60, LatMax: 60, LonMin: 142, LonMax: 180},
	{Name: "Western Atlantic", LatMin: -60, LatMax: 60, LonMin: -75, LonMax: -30},
	{Name: "Eastern Atlantic", LatMin: -60, LatMax: 75, LonMin: -30, LonMax: 10},
	{Name: "Indian Ocean", LatMin: -60, LatMax: 25, LonMin: 45, LonMax: 110},
	{Name: "Southern Ocean", LatMin: -60, LatMax: -40, LonMin: -180, LonMax: 180},
}

// Classifier decides whether a coordinate counts as open ocean. The rule
// order is significant and reproduced from the original renderer, including
// the overlapping |lat| > 70 guard after the polar exclusion: latitudes in
// (70, 75] pass the first rule but still die on the third, and removing it
// would change the filter there.
type Classifier struct {
	exclude []Box
	include []Box
}

// NewClassifier builds a classifier over the default region tables.
func NewClassifier() *Classifier {
	return &Classifier{exclude: DefaultExclusions, include: DefaultInclusions}
}

// NewClassifierWithBoxes builds a classifier over caller-supplied tables.
func NewClassifierWithBoxes(exclude, include []Box) *Classifier {
	return &Classifier{exclude: exclude, include: include}
}

// IsOceanPoint applies the ordered rule list: polar exclusion, named sea
// exclusion boxes, the redundant high-latitude guard, then deep-ocean
// inclusion boxes. It is a pure function of its arguments.
func (c *Classifier) IsOceanPoint(lat, lon float64) bool {
	if lat < -60 || lat > 75 {
		return false
	}
	for _, b := range c.exclude {
		if b.Contains(lat, lon) {
			return false
		}
	}
	if lat > 70 || lat < -70 {
		return false
	}
	for _, b := range c.include {
		if b.Contains(lat, lon) {
			return true
		}
	}
	return false
}

// Mask is the per-pixel ocean classification for one raster size.
type Mask struct {
	width  int
	height int
	bits   []bool
}

// At reports whether the pixel is open ocean. Off-raster coordinates are
// never ocean.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.bits[y*m.width+x]
}

// BuildMask classifies every pixel center for the given raster size.
func (c *Classifier) BuildMask(width, height int) *Mask {
	m := &Mask{width: width, height: height, bits: make([]bool, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			lat, lon := Unproject(float64(x)+0.5, float64(y)+0.5, width, height)
			m.bits[y*width+x] = c.IsOceanPoint(lat, lon)
		}
	}
	return m
}

type maskKey struct {
	classifier *Classifier
	width      int
	height     int
}

var (
	maskMu    sync.Mutex
	maskCache = map[maskKey]*Mask{}
)

// maskFor returns the cached mask for the classifier and raster size,
// building it on first use. The mask is a pure function of the size and the
// static tables, so caching across renders is safe.
func maskFor(c *Classifier, width, height int) *Mask {
	key := maskKey{classifier: c, width: width, height: height}
	maskMu.Lock()
	defer maskMu.Unlock()
	if m, ok := maskCache[key]; ok {
		return m
	}
	m := c.BuildMask(width, height)
	maskCache[key] = m
	return m
}

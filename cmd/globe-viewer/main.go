package main

import (
	"bytes"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/reecebuckle/ocean-globe/pkg/fetch"
	"github.com/reecebuckle/ocean-globe/pkg/geodata"
	"github.com/reecebuckle/ocean-globe/pkg/globe"
)

var (
	datasetFlag   = flag.String("dataset", "", "Dataset JSON file or URL (WebGL Globe layout); repeatable via extra args")
	indexFlag     = flag.String("index", geodata.SeasonalIndexURL, "Seasonal index used when no dataset is given")
	tracksFlag    = flag.String("tracks", geodata.SharkTracksURL, "Whale-shark tracks JSON file or URL (empty disables the layer)")
	worldFlag     = flag.String("world", geodata.WorldGeoJSONURL, "World coastline GeoJSON file or URL")
	renderWidth   = flag.Int("width", 1600, "Internal rendering width (height is always half)")
	windowWidth   = flag.Int("window-width", 1280, "Initial window width")
	windowHeight  = flag.Int("window-height", 640, "Initial window height")
	opacityFlag   = flag.Float64("opacity", 0.85, "Heatmap layer opacity over the basemap")
	normalizeFlag = flag.Bool("normalize", false, "Percentile-normalize magnitudes (for raw, unnormalized exports)")
	captureDir    = flag.String("capture-dir", "", "Directory for S-key frame captures (disabled when empty)")
	noCacheFlag   = flag.Bool("no-cache", false, "Skip the download cache for URL inputs")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	engine := globe.NewEngine(*renderWidth, *renderWidth/2)
	engine.HeatmapOpacity = *opacityFlag
	engine.FrameCaptureDir = *captureDir

	if err := engine.InitBackground(loadWorld(*worldFlag)); err != nil {
		log.Fatalf("Failed to build basemap: %v", err)
	}
	engine.InitPulseTexture()

	paths := flag.Args()
	if *datasetFlag != "" {
		paths = append([]string{*datasetFlag}, paths...)
	}

	var datasets []geodata.Dataset
	if len(paths) == 0 {
		var err error
		datasets, err = loadSeasonal(*indexFlag)
		if err != nil {
			log.Fatalf("Failed to load seasonal series from %s: %v", *indexFlag, err)
		}
	} else {
		for _, path := range paths {
			ds, err := loadDatasets(path)
			if err != nil {
				log.Fatalf("Failed to load %s: %v", path, err)
			}
			datasets = append(datasets, ds...)
		}
	}
	if *normalizeFlag {
		for i := range datasets {
			datasets[i].Normalize()
		}
	}
	engine.SetDatasets(datasets)

	if *tracksFlag != "" {
		ts, err := loadTracks(*tracksFlag)
		if err != nil {
			log.Printf("Tracks unavailable (%v); continuing without the track layer", err)
		} else {
			log.Printf("Loaded %d shark tracks (%d fixes)", len(ts.Sharks), ts.TotalPoints)
			for _, s := range ts.Sharks {
				log.Printf("  %s: %d fixes, %.0f km traveled", s.Name, len(s.Points), s.DistanceKm())
			}
			engine.SetTracks(ts)
		}
	}

	ebiten.SetWindowSize(*windowWidth, *windowHeight)
	ebiten.SetWindowTitle("Ocean Chlorophyll Globe")
	if err := ebiten.RunGame(engine); err != nil {
		log.Fatal(err)
	}
}

// loadWorld fetches the coastline GeoJSON, falling back to a plain ocean
// basemap when it is unavailable.
func loadWorld(pathOrURL string) *bytes.Reader {
	rc, err := fetch.Open(pathOrURL, !*noCacheFlag, "[world]")
	if err != nil {
		log.Printf("World geometry unavailable (%v); using plain basemap", err)
		return nil
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		log.Printf("Reading world geometry: %v; using plain basemap", err)
		return nil
	}
	return bytes.NewReader(raw)
}

// loadSeasonal pulls every period listed in a seasonal index. Dataset files
// next to a local index are read from its directory; otherwise each period's
// published URL is used.
func loadSeasonal(indexPathOrURL string) ([]geodata.Dataset, error) {
	rc, err := fetch.Open(indexPathOrURL, !*noCacheFlag, "[index]")
	if err != nil {
		return nil, err
	}
	idx, err := geodata.DecodeIndex(rc)
	rc.Close()
	if err != nil {
		return nil, err
	}

	local := !strings.HasPrefix(indexPathOrURL, "http://") && !strings.HasPrefix(indexPathOrURL, "https://")
	var datasets []geodata.Dataset
	for _, p := range idx.TimeSeries {
		src := p.URL()
		if local {
			src = filepath.Join(filepath.Dir(indexPathOrURL), p.Filename)
		}
		ds, err := loadDatasets(src)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds...)
	}
	log.Printf("Loaded %d series across %d periods", len(datasets), len(idx.TimeSeries))
	return datasets, nil
}

func loadDatasets(pathOrURL string) ([]geodata.Dataset, error) {
	rc, err := fetch.Open(pathOrURL, !*noCacheFlag, "[dataset]")
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return geodata.DecodeGlobeJSON(rc)
}

func loadTracks(pathOrURL string) (*geodata.TrackSet, error) {
	rc, err := fetch.Open(pathOrURL, !*noCacheFlag, "[tracks]")
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return geodata.DecodeTracks(rc)
}

// globe-render renders a dataset to a PNG heatmap without opening a window,
// for batch-producing frames or inspecting the pipeline output.
package main

import (
	"bytes"
	"flag"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/reecebuckle/ocean-globe/pkg/fetch"
	"github.com/reecebuckle/ocean-globe/pkg/geodata"
	"github.com/reecebuckle/ocean-globe/pkg/heatmap"
	"github.com/reecebuckle/ocean-globe/pkg/store"
)

var (
	datasetFlag   = flag.String("dataset", "", "Dataset JSON file or URL (WebGL Globe layout)")
	seriesFlag    = flag.String("series", "", "Series name inside the dataset (default: first)")
	widthFlag     = flag.Int("width", 1024, "Raster width in pixels (height is always half)")
	outFlag       = flag.String("out", "heatmap.png", "Output PNG path")
	cacheDBFlag   = flag.String("cache-db", "", "Badger raster cache directory (optional)")
	listCacheFlag = flag.Bool("list-cache", false, "List cached rasters in -cache-db and exit")
	normalizeFlag = flag.Bool("normalize", false, "Percentile-normalize magnitudes before rendering")
	noCacheFlag   = flag.Bool("no-cache", false, "Skip the download cache for URL inputs")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var cache *store.RasterStore
	if *cacheDBFlag != "" {
		var err error
		cache, err = store.Open(*cacheDBFlag)
		if err != nil {
			log.Fatalf("Failed to open raster cache: %v", err)
		}
		defer cache.Close()
	}

	if *listCacheFlag {
		if cache == nil {
			log.Fatal("-list-cache requires -cache-db")
		}
		count := 0
		err := cache.ForEach(func(k, v []byte) error {
			count++
			log.Printf("  %s  %d bytes", k, len(v))
			return nil
		})
		if err != nil {
			log.Fatalf("Failed to walk raster cache: %v", err)
		}
		log.Printf("%d cached rasters", count)
		return
	}

	if *datasetFlag == "" {
		log.Fatal("-dataset is required")
	}

	key := store.Key(*datasetFlag, *seriesFlag, *widthFlag)
	if cache != nil && !*normalizeFlag {
		if cached, err := cache.Get(key); err != nil {
			log.Fatalf("Reading raster cache: %v", err)
		} else if cached != nil {
			log.Printf("Cache hit for %s", key)
			writeOut(cached)
			return
		}
	}

	rc, err := fetch.Open(*datasetFlag, !*noCacheFlag, "[dataset]")
	if err != nil {
		log.Fatalf("Failed to open dataset: %v", err)
	}
	datasets, err := geodata.DecodeGlobeJSON(rc)
	rc.Close()
	if err != nil {
		log.Fatalf("Failed to decode dataset: %v", err)
	}
	series, err := geodata.FindSeries(datasets, *seriesFlag)
	if err != nil {
		log.Fatal(err)
	}
	if *normalizeFlag {
		series.Normalize()
	}
	lo, hi := series.MagnitudeRange()
	log.Printf("Rendering %q: %d points, magnitudes [%.3f, %.3f]", series.Name, series.Points(), lo, hi)

	start := time.Now()
	raster, err := heatmap.NewRasterizer(*widthFlag).Render(series.Samples)
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	log.Printf("Rendered %dx%d raster in %v", raster.Width, raster.Height, time.Since(start))

	var buf bytes.Buffer
	if err := png.Encode(&buf, raster.Image()); err != nil {
		log.Fatalf("Failed to encode PNG: %v", err)
	}
	if cache != nil && !*normalizeFlag {
		if err := cache.Put(key, buf.Bytes()); err != nil {
			log.Printf("Failed to cache raster: %v", err)
		}
	}
	writeOut(buf.Bytes())
}

func writeOut(encoded []byte) {
	if err := os.WriteFile(*outFlag, encoded, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outFlag, err)
	}
	log.Printf("Wrote %s (%d bytes)", *outFlag, len(encoded))
}

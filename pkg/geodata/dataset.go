// Package geodata loads the JSON datasets produced by the upstream MODIS and
// Movebank converters: chlorophyll sample series in the WebGL Globe stride-3
// layout, the seasonal time-series index, and whale-shark GPS tracks.
package geodata

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Dataset is one named series of stride-3 samples
// [lat0, lon0, mag0, lat1, lon1, mag1, ...].
type Dataset struct {
	Name    string
	Samples []float64
}

// Points returns the number of complete triplets in the series.
func (d *Dataset) Points() int {
	return len(d.Samples) / 3
}

// MagnitudeRange reports the min and max magnitude in the series. Zero
// values are returned for an empty series.
func (d *Dataset) MagnitudeRange() (min, max float64) {
	if len(d.Samples) < 3 {
		return 0, 0
	}
	mags := d.magnitudes()
	return floats.Min(mags), floats.Max(mags)
}

func (d *Dataset) magnitudes() []float64 {
	mags := make([]float64, 0, d.Points())
	for i := 2; i < len(d.Samples); i += 3 {
		mags = append(mags, d.Samples[i])
	}
	return mags
}

// Normalize rescales magnitudes so the 5th percentile maps to 0 and the 95th
// to 1, clipping outside that range. This mirrors the upstream converter's
// normalization and is a preprocessing step for raw exports; the published
// seasonal files are already normalized.
func (d *Dataset) Normalize() {
	if d.Points() < 2 {
		return
	}
	mags := d.magnitudes()
	sort.Float64s(mags)
	lo := stat.Quantile(0.05, stat.Empirical, mags, nil)
	hi := stat.Quantile(0.95, stat.Empirical, mags, nil)
	if hi <= lo {
		return
	}
	for i := 2; i < len(d.Samples); i += 3 {
		v := (d.Samples[i] - lo) / (hi - lo)
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		d.Samples[i] = v
	}
}

// DecodeGlobeJSON parses the WebGL Globe dataset layout
// [["SeriesName", [lat, lon, mag, ...]], ...]. Series whose sample array is
// not a whole number of triplets are rejected here so the renderer never
// sees a torn triplet.
func DecodeGlobeJSON(r io.Reader) ([]Dataset, error) {
	var raw [][]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding globe dataset: %w", err)
	}

	datasets := make([]Dataset, 0, len(raw))
	for i, series := range raw {
		if len(series) != 2 {
			return nil, fmt.Errorf("series %d: expected [name, samples] pair, got %d elements", i, len(series))
		}
		var d Dataset
		if err := json.Unmarshal(series[0], &d.Name); err != nil {
			return nil, fmt.Errorf("series %d name: %w", i, err)
		}
		if err := json.Unmarshal(series[1], &d.Samples); err != nil {
			return nil, fmt.Errorf("series %q samples: %w", d.Name, err)
		}
		if len(d.Samples)%3 != 0 {
			return nil, fmt.Errorf("series %q: %d values is not a whole number of lat/lon/magnitude triplets", d.Name, len(d.Samples))
		}
		datasets = append(datasets, d)
	}
	return datasets, nil
}

// FindSeries returns the named series, or the first one when name is empty.
func FindSeries(datasets []Dataset, name string) (Dataset, error) {
	if len(datasets) == 0 {
		return Dataset{}, fmt.Errorf("dataset file contains no series")
	}
	if name == "" {
		return datasets[0], nil
	}
	for _, d := range datasets {
		if d.Name == name {
			return d, nil
		}
	}
	return Dataset{}, fmt.Errorf("series %q not found", name)
}

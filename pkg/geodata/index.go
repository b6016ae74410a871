package geodata

import (
	"encoding/json"
	"fmt"
	"io"
)

// Period is one entry of the seasonal time-series index.
type Period struct {
	Year        int    `json:"year"`
	Season      string `json:"season"`
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
}

// URL returns the period's published dataset location.
func (p Period) URL() string {
	return fmt.Sprintf(SeasonalDatasetURL, p.Filename)
}

// Index lists every available chlorophyll period, as written by the
// upstream converter's time_series_index.json.
type Index struct {
	TotalPeriods int      `json:"total_periods"`
	YearRange    []int    `json:"year_range"`
	Seasons      []string `json:"seasons"`
	TimeSeries   []Period `json:"time_series"`
}

// DecodeIndex parses a time-series index document.
func DecodeIndex(r io.Reader) (*Index, error) {
	var idx Index
	if err := json.NewDecoder(r).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decoding time-series index: %w", err)
	}
	if len(idx.TimeSeries) == 0 {
		return nil, fmt.Errorf("time-series index lists no periods")
	}
	return &idx, nil
}

// Find returns the period for a year/season pair.
func (idx *Index) Find(year int, season string) (Period, bool) {
	for _, p := range idx.TimeSeries {
		if p.Year == year && p.Season == season {
			return p, true
		}
	}
	return Period{}, false
}

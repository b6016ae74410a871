package geodata

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/golang/geo/s2"
)

const earthRadiusKm = 6371.0

// TrackPoint is one GPS fix. The upstream Movebank converter stores points
// as [lon, lat, magnitude, unix timestamp].
type TrackPoint struct {
	Lat       float64
	Lon       float64
	Magnitude float64
	Time      time.Time
}

// Shark is one tagged animal with its ordered track.
type Shark struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Color  [3]uint8     `json:"color"`
	Points []TrackPoint `json:"-"`
}

// TrackSet is the complete tracking dataset.
type TrackSet struct {
	Sharks      []Shark
	TotalPoints int
}

type rawShark struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Color  [3]uint8     `json:"color"`
	Tracks [][4]float64 `json:"tracks"`
}

type rawTrackSet struct {
	Sharks      []rawShark `json:"sharks"`
	TotalPoints int        `json:"totalPoints"`
}

// DecodeTracks parses a whale_sharks_complete.json document.
func DecodeTracks(r io.Reader) (*TrackSet, error) {
	var raw rawTrackSet
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding track set: %w", err)
	}

	ts := &TrackSet{Sharks: make([]Shark, 0, len(raw.Sharks))}
	for _, rs := range raw.Sharks {
		s := Shark{ID: rs.ID, Name: rs.Name, Color: rs.Color}
		s.Points = make([]TrackPoint, 0, len(rs.Tracks))
		for _, p := range rs.Tracks {
			s.Points = append(s.Points, TrackPoint{
				Lon:       p[0],
				Lat:       p[1],
				Magnitude: p[2],
				Time:      time.Unix(int64(p[3]), 0).UTC(),
			})
		}
		ts.TotalPoints += len(s.Points)
		ts.Sharks = append(ts.Sharks, s)
	}
	return ts, nil
}

// FilterRange returns a copy of the set containing only fixes inside
// [from, to). Sharks with no fixes in the window are dropped.
func (ts *TrackSet) FilterRange(from, to time.Time) *TrackSet {
	out := &TrackSet{}
	for _, s := range ts.Sharks {
		filtered := Shark{ID: s.ID, Name: s.Name, Color: s.Color}
		for _, p := range s.Points {
			if !p.Time.Before(from) && p.Time.Before(to) {
				filtered.Points = append(filtered.Points, p)
			}
		}
		if len(filtered.Points) > 0 {
			out.TotalPoints += len(filtered.Points)
			out.Sharks = append(out.Sharks, filtered)
		}
	}
	return out
}

// TimeRange reports the earliest and latest fix across all sharks.
func (ts *TrackSet) TimeRange() (from, to time.Time) {
	for _, s := range ts.Sharks {
		for _, p := range s.Points {
			if from.IsZero() || p.Time.Before(from) {
				from = p.Time
			}
			if p.Time.After(to) {
				to = p.Time
			}
		}
	}
	return from, to
}

// TotalDistanceKm sums the great-circle track length of every shark's fixes
// inside [from, to).
func (ts *TrackSet) TotalDistanceKm(from, to time.Time) float64 {
	var total float64
	for _, s := range ts.FilterRange(from, to).Sharks {
		total += s.DistanceKm()
	}
	return total
}

// DistanceKm is the great-circle length of the shark's track in kilometers.
func (s *Shark) DistanceKm() float64 {
	var total float64
	for i := 1; i < len(s.Points); i++ {
		a := s2.LatLngFromDegrees(s.Points[i-1].Lat, s.Points[i-1].Lon)
		b := s2.LatLngFromDegrees(s.Points[i].Lat, s.Points[i].Lon)
		total += a.Distance(b).Radians() * earthRadiusKm
	}
	return total
}

// Package server exposes the heatmap pipeline over HTTP: a JSON listing of
// available periods, rendered PNG rasters per period, and a websocket that
// animates through the seasons.
package server

import (
	"bytes"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/reecebuckle/ocean-globe/pkg/geodata"
	"github.com/reecebuckle/ocean-globe/pkg/heatmap"
	"github.com/reecebuckle/ocean-globe/pkg/store"
)

type Server struct {
	cfg        Config
	rasterizer *heatmap.Rasterizer
	index      *geodata.Index
	cache      *store.RasterStore
	upgrader   websocket.Upgrader
}

// New loads the time-series index from cfg.DataDir and opens the raster
// cache when one is configured.
func New(cfg Config) (*Server, error) {
	f, err := os.Open(filepath.Join(cfg.DataDir, "time_series_index.json"))
	if err != nil {
		return nil, fmt.Errorf("opening time-series index: %w", err)
	}
	defer f.Close()
	idx, err := geodata.DecodeIndex(f)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		rasterizer: heatmap.NewRasterizer(cfg.RasterWidth),
		index:      idx,
		upgrader: websocket.Upgrader{
			// Rasters are a broadcast-style feed, not state mutation.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if cfg.CacheDir != "" {
		s.cache, err = store.Open(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("opening raster cache: %w", err)
		}
	}
	return s, nil
}

// Close releases the raster cache.
func (s *Server) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/periods", s.handlePeriods)
	r.GET("/api/heatmap/:year/:season", s.handleHeatmap)
	r.GET("/ws/seasons", s.handleSeasons)
	return r
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	log.Printf("[server] listening on %s (%d periods, raster width %d)",
		s.cfg.Listen, len(s.index.TimeSeries), s.cfg.RasterWidth)
	return s.Router().Run(s.cfg.Listen)
}

func (s *Server) handlePeriods(c *gin.Context) {
	c.JSON(http.StatusOK, s.index)
}

func (s *Server) handleHeatmap(c *gin.Context) {
	var year int
	if _, err := fmt.Sscanf(c.Param("year"), "%d", &year); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
		return
	}
	period, ok := s.index.Find(year, c.Param("season"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such period"})
		return
	}

	encoded, err := s.renderPeriod(period)
	if err != nil {
		log.Printf("[server] rendering %s: %v", period.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", encoded)
}

// handleSeasons streams one PNG frame per period over a websocket, looping
// until the client goes away.
func (s *Server) handleSeasons(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[server] websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Duration(s.cfg.FrameInterval))
	defer ticker.Stop()

	for i := 0; ; i = (i + 1) % len(s.index.TimeSeries) {
		period := s.index.TimeSeries[i]
		encoded, err := s.renderPeriod(period)
		if err != nil {
			log.Printf("[server] rendering %s: %v", period.Filename, err)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(period.DisplayName)); err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, encoded); err != nil {
			return
		}
		select {
		case <-closed:
			return
		case <-ticker.C:
		}
	}
}

// Prerender renders every period that is not already cached and stores the
// batch in one write, so the first client never pays render latency.
func (s *Server) Prerender() error {
	if s.cache == nil {
		return fmt.Errorf("prerender requires a cache_dir")
	}

	entries := make(map[string][]byte)
	start := time.Now()
	for _, period := range s.index.TimeSeries {
		key := store.Key(period.Filename, "", s.cfg.RasterWidth)
		if cached, err := s.cache.Get(key); err != nil {
			return err
		} else if cached != nil {
			continue
		}
		encoded, err := s.renderDataset(period)
		if err != nil {
			return fmt.Errorf("prerendering %s: %w", period.Filename, err)
		}
		entries[string(key)] = encoded
	}
	if len(entries) == 0 {
		return nil
	}
	if err := s.cache.BatchPut(entries); err != nil {
		return err
	}
	log.Printf("[server] prerendered %d periods in %v", len(entries), time.Since(start))
	return nil
}

// renderPeriod returns the PNG-encoded raster for a period, consulting the
// cache first when one is open.
func (s *Server) renderPeriod(period geodata.Period) ([]byte, error) {
	key := store.Key(period.Filename, "", s.cfg.RasterWidth)
	if s.cache != nil {
		if cached, err := s.cache.Get(key); err != nil {
			return nil, err
		} else if cached != nil {
			return cached, nil
		}
	}

	encoded, err := s.renderDataset(period)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Put(key, encoded); err != nil {
			log.Printf("[server] caching %s: %v", period.Filename, err)
		}
	}
	return encoded, nil
}

// renderDataset runs the pipeline on a period's dataset and PNG-encodes the
// raster, bypassing the cache.
func (s *Server) renderDataset(period geodata.Period) ([]byte, error) {
	f, err := os.Open(filepath.Join(s.cfg.DataDir, period.Filename))
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	datasets, err := geodata.DecodeGlobeJSON(f)
	if err != nil {
		return nil, err
	}
	series, err := geodata.FindSeries(datasets, "")
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raster, err := s.rasterizer.Render(series.Samples)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, raster.Image()); err != nil {
		return nil, fmt.Errorf("encoding raster: %w", err)
	}
	log.Printf("[server] rendered %s (%d points) in %v", period.Filename, series.Points(), time.Since(start))
	return buf.Bytes(), nil
}

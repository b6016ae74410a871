package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "500ms" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the globe-server configuration file.
type Config struct {
	// Listen is the host:port the HTTP server binds.
	Listen string `yaml:"listen"`
	// DataDir holds the seasonal dataset JSON files and the
	// time_series_index.json that lists them.
	DataDir string `yaml:"data_dir"`
	// RasterWidth is the heatmap width in pixels; height is always half.
	RasterWidth int `yaml:"raster_width"`
	// CacheDir enables the badger raster cache when set.
	CacheDir string `yaml:"cache_dir"`
	// Prerender renders every period into the cache at startup.
	Prerender bool `yaml:"prerender"`
	// FrameInterval paces the websocket season animation.
	FrameInterval Duration `yaml:"frame_interval"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Listen:        ":8080",
		DataDir:       "data/seasonal",
		RasterWidth:   1024,
		FrameInterval: Duration(2 * time.Second),
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.RasterWidth <= 0 {
		return cfg, fmt.Errorf("raster_width must be positive, got %d", cfg.RasterWidth)
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultConfig().FrameInterval
	}
	return cfg, nil
}

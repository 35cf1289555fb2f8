// Package config handles configuration loading and shared settings.
package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	// Map view handed to the page; the base layer is rendered by the browser.
	Attribution string     `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	TileURL     string     `yaml:"tile_url,omitempty" json:"tile_url"`
	Center      [2]float64 `yaml:"center,omitempty" json:"center"` // projected units
	Zoom        float64    `yaml:"zoom,omitempty" json:"zoom"`
	Title       string     `yaml:"title,omitempty" json:"title"`

	Overlay Overlay `yaml:"overlay,omitempty" json:"-"`
	Queue   int     `yaml:"queue,omitempty" json:"-"` // draw loop queue size
}

// Overlay configures the rendered annotation image.
type Overlay struct {
	Size        int     `yaml:"size,omitempty"`
	MaxSize     int     `yaml:"max_size,omitempty"`
	Supersample int     `yaml:"supersample,omitempty"`
	Quality     float32 `yaml:"quality,omitempty"`
	Lossless    bool    `yaml:"lossless,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
// A missing file is not an error: defaults are returned instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.TileURL == "" {
		c.TileURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	}
	if c.Attribution == "" {
		c.Attribution = "&copy; OpenStreetMap contributors"
	}
	if c.Zoom <= 0 {
		c.Zoom = 2
	}
	if c.Title == "" {
		c.Title = "Map measure"
	}
	if c.Queue <= 0 {
		c.Queue = 64
	}
	if c.Overlay.Size <= 0 {
		c.Overlay.Size = 256
	}
	if c.Overlay.MaxSize <= 0 {
		c.Overlay.MaxSize = 2048
	}
	if c.Overlay.Supersample <= 0 {
		c.Overlay.Supersample = 2
	}
	if c.Overlay.Quality <= 0 {
		c.Overlay.Quality = 85
	}
}

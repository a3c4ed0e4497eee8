// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Style     StyleConfig     `yaml:"style"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Stream    StreamConfig    `yaml:"stream"`
	Gallery   GalleryConfig   `yaml:"gallery"`
	Headless  HeadlessConfig  `yaml:"headless"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	TargetFPS      int    `yaml:"target_fps"`
	Title          string `yaml:"title"`
	Background     string `yaml:"background"`      // Color behind the transparent field
	Resizable      bool   `yaml:"resizable"`
	DebounceResize bool   `yaml:"debounce_resize"` // Coalesce resize bursts to one per frame
}

// FieldConfig holds particle simulation parameters.
type FieldConfig struct {
	ParticleCount  int     `yaml:"particle_count"`
	Radius         float64 `yaml:"radius"`
	MaxDistance    float64 `yaml:"max_distance"`    // Connection threshold
	InitialOpacity float64 `yaml:"initial_opacity"` // Opacity at spawn and after reset
	OpacityDecay   float64 `yaml:"opacity_decay"`   // Opacity lost per update
	MaxSpeed       float64 `yaml:"max_speed"`       // Velocity components drawn from [-max, max]
	FillMode       string  `yaml:"fill_mode"`       // gradient | solid | hue
	FillColor      string  `yaml:"fill_color"`      // Used by fill_mode: solid
	ResizeMode     string  `yaml:"resize_mode"`     // reset | reclamp
}

// ColorStopConfig is one stop of the background gradient.
type ColorStopConfig struct {
	Offset float64 `yaml:"offset"`
	Color  string  `yaml:"color"`
}

// StyleConfig holds drawing styles.
type StyleConfig struct {
	Gradient     []ColorStopConfig `yaml:"gradient"`      // Laid along the surface diagonal
	Stroke       string            `yaml:"stroke"`        // Stroke before the first resize
	ResizeStroke string            `yaml:"resize_stroke"` // Stroke installed by every resize
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Frames per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// StreamConfig holds the websocket frame stream settings.
type StreamConfig struct {
	Address   string        `yaml:"address"` // Empty disables the stream
	Path      string        `yaml:"path"`
	Every     int           `yaml:"every"` // Publish every Nth frame
	ClientBuf int           `yaml:"client_buffer"`
	WriteWait time.Duration `yaml:"write_wait"`
}

// GalleryConfig holds the remote image gallery client settings.
type GalleryConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	RefreshDelay time.Duration `yaml:"refresh_delay"` // Wait after upload before listing
	KeepMinimum  int           `yaml:"keep_minimum"`  // Deletes allowed only above this count
	MaxUpload    int64         `yaml:"max_upload"`    // Bytes
	ThumbWidth   int           `yaml:"thumb_width"`
	ThumbHeight  int           `yaml:"thumb_height"`
}

// HeadlessConfig holds settings for runs without a window.
type HeadlessConfig struct {
	FrameEvery int `yaml:"frame_every"` // Save every Nth frame when a frames dir is set
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameInterval time.Duration // 1/TargetFPS
	ScreenW       float64
	ScreenH       float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects settings the field cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case c.Screen.TargetFPS <= 0:
		return fmt.Errorf("%w: target_fps %d", ErrInvalid, c.Screen.TargetFPS)
	case c.Field.ParticleCount < 0:
		return fmt.Errorf("%w: particle_count %d", ErrInvalid, c.Field.ParticleCount)
	case c.Field.Radius < 0:
		return fmt.Errorf("%w: radius %v", ErrInvalid, c.Field.Radius)
	case c.Field.MaxDistance <= 0:
		return fmt.Errorf("%w: max_distance %v", ErrInvalid, c.Field.MaxDistance)
	case c.Field.InitialOpacity < 0 || c.Field.InitialOpacity > 1:
		return fmt.Errorf("%w: initial_opacity %v", ErrInvalid, c.Field.InitialOpacity)
	case c.Field.OpacityDecay < 0:
		return fmt.Errorf("%w: opacity_decay %v", ErrInvalid, c.Field.OpacityDecay)
	case len(c.Style.Gradient) == 0:
		return fmt.Errorf("%w: style.gradient has no stops", ErrInvalid)
	}
	for _, s := range c.Style.Gradient {
		if s.Offset < 0 || s.Offset > 1 {
			return fmt.Errorf("%w: gradient offset %v", ErrInvalid, s.Offset)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.FrameInterval = time.Second / time.Duration(c.Screen.TargetFPS)
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)

	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = c.Screen.TargetFPS * 5
	}
	if c.Stream.Every < 1 {
		c.Stream.Every = 1
	}
	if c.Headless.FrameEvery < 1 {
		c.Headless.FrameEvery = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

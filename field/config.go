package field

import (
	"fmt"

	"github.com/pthm-cable/glimmer/config"
	"github.com/pthm-cable/glimmer/surface"
)

// FillMode selects how particles are painted.
type FillMode string

const (
	// FillGradient paints particles with the field's current fill style.
	FillGradient FillMode = "gradient"
	// FillSolid paints every particle with Config.FillColor.
	FillSolid FillMode = "solid"
	// FillHue paints each particle with its own random hue.
	FillHue FillMode = "hue"
)

// ResizeMode selects what happens to particles on resize.
type ResizeMode string

const (
	// ResizeReset repositions every particle and restores its opacity.
	ResizeReset ResizeMode = "reset"
	// ResizeReclamp keeps particles and clamps them into the new bounds.
	ResizeReclamp ResizeMode = "reclamp"
)

// Config holds the field parameters in resolved form.
type Config struct {
	Count          int
	Radius         float64
	MaxDistance    float64
	InitialOpacity float64
	OpacityDecay   float64
	MaxSpeed       float64
	FillMode       FillMode
	FillColor      surface.Color
	ResizeMode     ResizeMode

	Gradient     []surface.ColorStop
	Stroke       surface.Color
	ResizeStroke surface.Color
}

// DefaultConfig returns the built-in field parameters.
func DefaultConfig() Config {
	return Config{
		Count:          6,
		Radius:         2.5,
		MaxDistance:    400,
		InitialOpacity: 0.5,
		OpacityDecay:   0.01,
		MaxSpeed:       0.5,
		FillMode:       FillGradient,
		FillColor:      surface.MustParseColor("#ff0000"),
		ResizeMode:     ResizeReset,
		Gradient: []surface.ColorStop{
			{Offset: 0, Color: surface.Magenta},
			{Offset: 0.5, Color: surface.Black},
			{Offset: 1, Color: surface.Magenta},
		},
		Stroke:       surface.Black,
		ResizeStroke: surface.Magenta,
	}
}

// FromConfig resolves the loaded field and style sections.
func FromConfig(fc config.FieldConfig, sc config.StyleConfig) (Config, error) {
	cfg := Config{
		Count:          fc.ParticleCount,
		Radius:         fc.Radius,
		MaxDistance:    fc.MaxDistance,
		InitialOpacity: fc.InitialOpacity,
		OpacityDecay:   fc.OpacityDecay,
		MaxSpeed:       fc.MaxSpeed,
		FillMode:       FillMode(fc.FillMode),
		ResizeMode:     ResizeMode(fc.ResizeMode),
	}

	switch cfg.FillMode {
	case FillGradient, FillSolid, FillHue:
	default:
		return Config{}, fmt.Errorf("unknown fill mode %q", fc.FillMode)
	}
	switch cfg.ResizeMode {
	case ResizeReset, ResizeReclamp:
	default:
		return Config{}, fmt.Errorf("unknown resize mode %q", fc.ResizeMode)
	}

	var err error
	if cfg.FillColor, err = surface.ParseColor(fc.FillColor); err != nil {
		return Config{}, fmt.Errorf("fill color: %w", err)
	}
	if cfg.Stroke, err = surface.ParseColor(sc.Stroke); err != nil {
		return Config{}, fmt.Errorf("stroke: %w", err)
	}
	if cfg.ResizeStroke, err = surface.ParseColor(sc.ResizeStroke); err != nil {
		return Config{}, fmt.Errorf("resize stroke: %w", err)
	}
	for i, stop := range sc.Gradient {
		c, err := surface.ParseColor(stop.Color)
		if err != nil {
			return Config{}, fmt.Errorf("gradient stop %d: %w", i, err)
		}
		cfg.Gradient = append(cfg.Gradient, surface.ColorStop{Offset: stop.Offset, Color: c})
	}
	return cfg, nil
}

// gradientFor lays the configured stops along the diagonal of a w x h surface.
func (c Config) gradientFor(w, h float64) surface.Paint {
	return surface.NewLinearGradient(0, 0, w, h, c.Gradient...)
}

package surface

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Magenta     = Color{1, 0, 1, 1}
	Transparent = Color{}
)

// namedColors maps the CSS keywords used by configs to hex.
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"magenta": "#ff00ff",
	"fuchsia": "#ff00ff",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"violet":  "#ee82ee",
	"purple":  "#800080",
	"pink":    "#ffc0cb",
	"gray":    "#808080",
	"grey":    "#808080",
}

// ParseColor parses a CSS keyword, "#rgb" or "#rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return Transparent, nil
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HSL builds an opaque color from hue in degrees, saturation and lightness in [0, 1].
func HSL(h, s, l float64) Color {
	c := colorful.Hsl(math.Mod(h, 360), s, l).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// WithAlpha returns the color with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= clamp01(a)
	return c
}

// RGBA8 returns the color as 8-bit straight-alpha components.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

// Lerp interpolates between a and b in RGB, t clamped to [0, 1].
// Alpha is interpolated separately.
func Lerp(a, b Color, t float64) Color {
	t = clamp01(t)
	c := a.toColorful().BlendRgb(b.toColorful(), t)
	return Color{R: c.R, G: c.G, B: c.B, A: a.A + (b.A-a.A)*t}
}

func (c Color) toColorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

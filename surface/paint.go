package surface

import "sort"

// Paint is a fill or stroke source sampled in surface coordinates.
type Paint interface {
	At(x, y float64) Color
}

// Solid paints one color everywhere.
type Solid Color

// At implements Paint.
func (s Solid) At(x, y float64) Color {
	return Color(s)
}

// ColorStop is a gradient stop at Offset in [0, 1].
type ColorStop struct {
	Offset float64
	Color  Color
}

// LinearGradient interpolates stops along the segment (X0, Y0) -> (X1, Y1).
// Points are projected onto the segment and clamped to its ends.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

// NewLinearGradient builds a gradient with stops sorted by offset.
func NewLinearGradient(x0, y0, x1, y1 float64, stops ...ColorStop) LinearGradient {
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: sorted}
}

// At implements Paint. A zero-length gradient paints nothing.
func (g LinearGradient) At(x, y float64) Color {
	if len(g.Stops) == 0 {
		return Transparent
	}
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Transparent
	}
	t := ((x-g.X0)*dx + (y-g.Y0)*dy) / lenSq
	return g.ColorAt(t)
}

// ColorAt returns the gradient color at offset t.
func (g LinearGradient) ColorAt(t float64) Color {
	stops := g.Stops
	if len(stops) == 0 {
		return Transparent
	}
	t = clamp01(t)
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		lo, hi := stops[i-1], stops[i]
		if t > hi.Offset {
			continue
		}
		span := hi.Offset - lo.Offset
		if span <= 0 {
			return hi.Color
		}
		return Lerp(lo.Color, hi.Color, (t-lo.Offset)/span)
	}
	return last.Color
}

// Package surface defines the 2D drawing surface the particle field renders onto,
// plus an in-memory recorder and an image-backed raster implementation.
package surface

// Surface is a canvas-like 2D drawing target.
// Styles and global alpha are sticky state, as on an HTML canvas.
type Surface interface {
	Width() float64
	Height() float64

	ClearRect(x, y, w, h float64)
	FillCircle(cx, cy, r float64)
	Line(x0, y0, x1, y1 float64)

	SetGlobalAlpha(a float64)
	GlobalAlpha() float64
	SetFillStyle(p Paint)
	FillStyle() Paint
	SetStrokeStyle(p Paint)
	StrokeStyle() Paint
}

// Resizable is implemented by surfaces whose pixel size the field may set.
// Resizing resets the style state, like assigning canvas width/height.
type Resizable interface {
	SetSize(w, h float64)
}

// State is the sticky style state shared by Surface implementations.
type State struct {
	fill   Paint
	stroke Paint
	alpha  float64
}

// NewState returns the default state: black fill and stroke, alpha 1.
func NewState() State {
	return State{fill: Solid(Black), stroke: Solid(Black), alpha: 1}
}

// SetGlobalAlpha sets the alpha applied to every subsequent draw.
// Values outside [0, 1] and NaN are ignored.
func (s *State) SetGlobalAlpha(a float64) {
	if a < 0 || a > 1 || a != a {
		return
	}
	s.alpha = a
}

// GlobalAlpha returns the current global alpha.
func (s *State) GlobalAlpha() float64 {
	return s.alpha
}

// SetFillStyle sets the fill paint. Nil is ignored.
func (s *State) SetFillStyle(p Paint) {
	if p != nil {
		s.fill = p
	}
}

// FillStyle returns the current fill paint.
func (s *State) FillStyle() Paint {
	return s.fill
}

// SetStrokeStyle sets the stroke paint. Nil is ignored.
func (s *State) SetStrokeStyle(p Paint) {
	if p != nil {
		s.stroke = p
	}
}

// StrokeStyle returns the current stroke paint.
func (s *State) StrokeStyle() Paint {
	return s.stroke
}

// ResetState restores the defaults.
func (s *State) ResetState() {
	*s = NewState()
}

// FillColorAt samples the fill paint at (x, y) with global alpha applied.
func (s *State) FillColorAt(x, y float64) Color {
	return s.fill.At(x, y).WithAlpha(s.alpha)
}

// StrokeColorAt samples the stroke paint at (x, y) with global alpha applied.
func (s *State) StrokeColorAt(x, y float64) Color {
	return s.stroke.At(x, y).WithAlpha(s.alpha)
}

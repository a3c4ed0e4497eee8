package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glimmer/surface"
)

// strokeWidth matches the canvas default lineWidth.
const strokeWidth = 1

// Surface draws the field onto the raylib window.
// Draw calls must happen between BeginDrawing and EndDrawing on the window thread.
type Surface struct {
	surface.State

	width, height float64
	bg            *BackgroundRenderer
}

// NewSurface creates a surface of w x h. Cleared regions show bg, or
// transparent black when bg is nil.
func NewSurface(w, h int, bg *BackgroundRenderer) *Surface {
	return &Surface{
		State:  surface.NewState(),
		width:  float64(w),
		height: float64(h),
		bg:     bg,
	}
}

// Width returns the surface width in pixels.
func (s *Surface) Width() float64 { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() float64 { return s.height }

// SetSize resizes the surface and resets its style state.
// The window follows when its size differs.
func (s *Surface) SetSize(w, h float64) {
	s.width, s.height = w, h
	s.ResetState()
	if s.bg != nil {
		s.bg.Resize(w, h)
	}

	iw, ih := int(w), int(h)
	if rl.IsWindowReady() && (rl.GetScreenWidth() != iw || rl.GetScreenHeight() != ih) {
		rl.SetWindowSize(iw, ih)
	}
}

// ClearRect repaints the background over the rectangle.
func (s *Surface) ClearRect(x, y, w, h float64) {
	full := x <= 0 && y <= 0 && x+w >= s.width && y+h >= s.height
	if !full {
		rl.BeginScissorMode(int32(x), int32(y), int32(w), int32(h))
		defer rl.EndScissorMode()
	}
	if s.bg != nil {
		s.bg.Draw()
		return
	}
	rl.ClearBackground(rl.Blank)
}

// FillCircle fills a circle with the fill paint sampled at its center.
func (s *Surface) FillCircle(cx, cy, r float64) {
	c := toColor(s.FillColorAt(cx, cy))
	rl.DrawCircleV(rl.Vector2{X: float32(cx), Y: float32(cy)}, float32(r), c)
}

// Line strokes a line with the stroke paint sampled at its midpoint.
func (s *Surface) Line(x0, y0, x1, y1 float64) {
	c := toColor(s.StrokeColorAt((x0+x1)/2, (y0+y1)/2))
	rl.DrawLineEx(
		rl.Vector2{X: float32(x0), Y: float32(y0)},
		rl.Vector2{X: float32(x1), Y: float32(y1)},
		strokeWidth, c,
	)
}

func toColor(c surface.Color) rl.Color {
	r, g, b, a := c.RGBA8()
	return rl.Color{R: r, G: g, B: b, A: a}
}

package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glimmer/field"
)

// Inspector panel dimensions.
const (
	inspectorWidth = 220
	clickSlop      = 8 // Pixels beyond the radius that still select a particle
)

// Inspector selects a particle by click and shows its state.
type Inspector struct {
	renderer *Renderer
	selected int
	x, y     int32
}

// NewInspector creates an inspector with nothing selected.
func NewInspector(x, y int32) *Inspector {
	return &Inspector{renderer: NewRenderer(), selected: -1, x: x, y: y}
}

// SetPosition updates the panel position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x, ins.y = x, y
}

// Selected returns the selected particle index, or -1.
func (ins *Inspector) Selected() int { return ins.selected }

// Deselect clears the selection.
func (ins *Inspector) Deselect() { ins.selected = -1 }

// HandleInput selects the particle under a left click. Right click or
// Escape deselects. Clicks inside blocked (the raygui panel) are ignored.
func (ins *Inspector) HandleInput(f *field.Field, blocked rl.Rectangle) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if rl.CheckCollisionPointRec(mouse, blocked) || rl.CheckCollisionPointRec(mouse, ins.bounds()) {
		return
	}
	if i := f.Nearest(float64(mouse.X), float64(mouse.Y), clickSlop); i >= 0 {
		ins.selected = i
	}
}

func (ins *Inspector) bounds() rl.Rectangle {
	if ins.selected < 0 {
		return rl.Rectangle{}
	}
	return rl.Rectangle{X: float32(ins.x), Y: float32(ins.y), Width: inspectorWidth, Height: ins.height()}
}

func (ins *Inspector) height() float32 {
	return float32(ins.renderer.Theme.LineHeight*9 + ins.renderer.Theme.Padding*2)
}

// Draw renders the selected particle's state. It draws nothing without a selection.
func (ins *Inspector) Draw(f *field.Field) {
	if ins.selected < 0 || ins.selected >= f.Len() {
		return
	}
	r := ins.renderer
	p := f.Particle(ins.selected)
	r.DrawPanel(ins.x, ins.y, inspectorWidth, int32(ins.height()))

	x := ins.x + r.Theme.Padding
	inner := int32(inspectorWidth) - r.Theme.Padding*2
	y := r.DrawTitle(x, ins.y+r.Theme.Padding, fmt.Sprintf("Particle #%d", ins.selected))

	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("%.1f, %.1f", p.X, p.Y))
	y = r.DrawLabelValue(x, y, "Velocity", fmt.Sprintf("%+.3f, %+.3f", p.VX, p.VY))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.3f", math.Hypot(p.VX, p.VY)))
	y = r.DrawLabelValue(x, y, "Radius", fmt.Sprintf("%.1f", p.Radius))
	y = r.DrawLabelValue(x, y, "Hue", fmt.Sprintf("%.0f", p.Hue))
	y = r.DrawBar(x, y, "Opacity", float32(p.Opacity), inner)

	links := 0
	for _, l := range f.Links() {
		if l.A == ins.selected || l.B == ins.selected {
			links++
		}
	}
	r.DrawLabelValue(x, y, "Links", fmt.Sprintf("%d", links))
}

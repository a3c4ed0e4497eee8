package ui

import (
	"fmt"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Controller is the set of field actions the panel and keys drive.
// *game.Game implements it.
type Controller interface {
	Paused() bool
	SetPaused(p bool)
	ResetParticles()
	MaxDistance() float64
	SetMaxDistance(d float64)
	Snapshot(label string) (string, error)
}

const (
	panelWidth  = 260
	panelHeight = 150
)

// Panel is the raygui control panel: connection threshold slider plus
// pause, reset and snapshot buttons.
type Panel struct {
	renderer     *Renderer
	x, y         float32
	visible      bool
	maxThreshold float32
	status       string
}

// NewPanel creates a visible panel whose slider spans [0, maxThreshold].
func NewPanel(x, y float32, maxThreshold float64) *Panel {
	return &Panel{
		renderer:     NewRenderer(),
		x:            x,
		y:            y,
		visible:      true,
		maxThreshold: float32(maxThreshold),
	}
}

// SetPosition updates the panel position.
func (p *Panel) SetPosition(x, y float32) {
	p.x, p.y = x, y
}

// Toggle switches panel visibility.
func (p *Panel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *Panel) IsVisible() bool { return p.visible }

// Bounds returns the panel's screen area, empty while hidden.
func (p *Panel) Bounds() rl.Rectangle {
	if !p.visible {
		return rl.Rectangle{}
	}
	return rl.Rectangle{X: p.x, Y: p.y, Width: panelWidth, Height: panelHeight}
}

// Status returns the last action message.
func (p *Panel) Status() string { return p.status }

// Snapshot saves a manual snapshot and records the outcome as the status.
func (p *Panel) Snapshot(c Controller) {
	path, err := c.Snapshot("manual")
	if err != nil {
		slog.Error("snapshot failed", "error", err)
		p.status = "snapshot failed: " + err.Error()
		return
	}
	p.status = "saved " + path
}

// Draw renders the panel and applies any widget changes to c.
func (p *Panel) Draw(c Controller) {
	if !p.visible {
		return
	}
	r := p.renderer
	pad := float32(r.Theme.Padding)
	r.DrawPanel(int32(p.x), int32(p.y), panelWidth, panelHeight)

	y := r.DrawTitle(int32(p.x+pad), int32(p.y+pad), "Field")

	current := float32(c.MaxDistance())
	rl.DrawText("Connection distance", int32(p.x+pad), y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight
	next := gui.SliderBar(
		rl.Rectangle{X: p.x + pad + 12, Y: float32(y), Width: panelWidth - 2*pad - 70, Height: 18},
		"0", fmt.Sprintf("%.0f", p.maxThreshold),
		current, 0, p.maxThreshold,
	)
	rl.DrawText(fmt.Sprintf("%.0f", current), int32(p.x+panelWidth-pad-26), y+3, r.Theme.FontSize, r.Theme.ValueColor)
	if next != current {
		c.SetMaxDistance(float64(next))
	}
	y += 30

	bw := (panelWidth - 4*pad) / 3
	bx := p.x + pad
	pauseText := "Pause"
	if c.Paused() {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: bx, Y: float32(y), Width: bw, Height: 28}, pauseText) {
		c.SetPaused(!c.Paused())
	}
	if gui.Button(rl.Rectangle{X: bx + bw + pad, Y: float32(y), Width: bw, Height: 28}, "Reset") {
		c.ResetParticles()
	}
	if gui.Button(rl.Rectangle{X: bx + 2*(bw+pad), Y: float32(y), Width: bw, Height: 28}, "Snapshot") {
		p.Snapshot(c)
	}
	y += 36

	if p.status != "" {
		rl.DrawText(truncate(p.status, 40), int32(p.x+pad), y, 10, r.Theme.MutedColor)
	}
}

// thresholdStep is the change per arrow key press.
const thresholdStep = 10

// HandleInput applies the keyboard shortcuts.
func HandleInput(c Controller, overlays *OverlayRegistry, controls *ControlsPanel, panel *Panel) {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		c.SetPaused(!c.Paused())
	case rl.IsKeyPressed(rl.KeyR):
		c.ResetParticles()
	case rl.IsKeyPressed(rl.KeyS):
		panel.Snapshot(c)
	case rl.IsKeyPressed(rl.KeyF1):
		panel.Toggle()
	case rl.IsKeyPressed(rl.KeyTab):
		controls.Toggle()
	case rl.IsKeyPressed(rl.KeyF11):
		rl.ToggleFullscreen()
	case rl.IsKeyPressed(rl.KeyUp):
		c.SetMaxDistance(min(c.MaxDistance()+thresholdStep, float64(panel.maxThreshold)))
	case rl.IsKeyPressed(rl.KeyDown):
		c.SetMaxDistance(c.MaxDistance() - thresholdStep)
	}

	for _, key := range overlays.Keys() {
		if rl.IsKeyPressed(key) {
			overlays.HandleKeyPress(key)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}

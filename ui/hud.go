package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glimmer/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Frame        uint64
	FPS          int32
	Particles    int
	Links        int
	MaxDistance  float64
	Resizes      int
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32
	Clients      int    // Stream clients; -1 when streaming is off
	Status       string // Last action message, e.g. a snapshot path
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	r.DrawPanel(6, 6, 300, 98)

	rl.DrawText(data.Title, 14, 12, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Frame: %d | FPS: %d | %dx%d", data.Frame, data.FPS, data.ScreenWidth, data.ScreenHeight),
		14, 36, 14, r.Theme.LabelColor,
	)
	rl.DrawText(
		fmt.Sprintf("Particles: %d | Links: %d | Threshold: %.0f", data.Particles, data.Links, data.MaxDistance),
		14, 54, 14, r.Theme.LabelColor,
	)

	status := "Running"
	color := r.Theme.ToggleOn
	if data.Paused {
		status = "PAUSED"
		color = rl.Yellow
	}
	line := fmt.Sprintf("%s | Resizes: %d", status, data.Resizes)
	if data.Clients >= 0 {
		line += fmt.Sprintf(" | Viewers: %d", data.Clients)
	}
	rl.DrawText(line, 14, 72, 14, color)

	if data.Status != "" {
		rl.DrawText(data.Status, 14, 90, 10, r.Theme.MutedColor)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-22, 14, rl.DarkPurple)
}

// PerfPanel renders the frame phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x, p.y = x, y
}

// Draw renders the frame work timing and the per-phase breakdown.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	phases := telemetry.Phases()
	width := int32(240)
	height := int32(len(phases))*14 + 64
	r.DrawPanel(p.x, p.y, width, height)

	x := p.x + r.Theme.Padding
	y := r.DrawTitle(x, p.y+r.Theme.Padding, "Frame Timing")

	rl.DrawText(
		fmt.Sprintf("Work: %s avg  %s max", stats.AvgWork.Round(time.Microsecond), stats.MaxWork.Round(time.Microsecond)),
		x, y, 12, rl.Yellow,
	)
	y += 16

	for _, name := range phases {
		pt := stats.Phase(name)
		pct := pt.Pct
		color := r.Theme.LabelColor
		if pct > 60 {
			color = rl.Red
		} else if pct > 30 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, pt.Avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

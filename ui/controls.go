package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the overlay toggle list and key legend.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// keyLegend lists the non-overlay shortcuts.
var keyLegend = []struct{ name, key string }{
	{"Pause", "Space"},
	{"Reset", "R"},
	{"Snapshot", "S"},
	{"Threshold", "Up/Down"},
	{"Panel", "F1"},
	{"This list", "Tab"},
	{"Fullscreen", "F11"},
	{"Deselect", "Esc"},
}

// Draw renders the panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	rows := len(keyLegend) + 1
	for _, cat := range categories {
		rows += len(overlays.ByCategory(cat)) + 1
	}
	panelHeight := int32(rows)*lineHeight + padding*3 + lineHeight + int32(len(categories))*4
	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := r.DrawTitle(c.x+padding, c.y+padding, "Overlays")
	inner := c.width - padding*2

	for _, category := range categories {
		y = r.DrawSectionHeader(c.x+padding, y, categoryLabel(category))
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), inner)
			y += lineHeight
		}
		y += 4
	}

	y = r.DrawSectionHeader(c.x+padding, y, "Keys")
	for _, k := range keyLegend {
		rl.DrawText(k.name, c.x+padding+14, y, r.Theme.FontSize, r.Theme.LabelColor)
		r.DrawKeyHint(c.x+padding, y, inner, k.key)
		y += lineHeight
	}
	return y
}

func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	status := r.Theme.ToggleOff
	name := r.Theme.LabelColor
	if enabled {
		status = r.Theme.ToggleOn
		name = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, status)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, name)
	if desc.KeyLabel != "" {
		r.DrawKeyHint(x, y, width, desc.KeyLabel)
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "info":
		return "Info"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

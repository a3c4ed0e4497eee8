// Package ui draws the debug HUD, overlay toggles, the raygui control
// panel and the particle inspector over the field.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	MutedColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color
	ToggleOn      rl.Color
	ToggleOff     rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	TitleFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 30, G: 20, B: 45, A: 220},
		PanelBorder:    rl.Color{R: 139, G: 92, B: 246, A: 255},
		SectionHeader:  rl.Color{R: 249, G: 168, B: 212, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		MutedColor:     rl.Color{R: 150, G: 150, B: 160, A: 255},
		BarBg:          rl.Color{R: 50, G: 40, B: 60, A: 255},
		BarFill:        rl.Color{R: 236, G: 72, B: 153, A: 255},
		ToggleOn:       rl.Color{R: 134, G: 239, B: 172, A: 255},
		ToggleOff:      rl.Color{R: 80, G: 80, B: 80, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     80,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
		TitleFontSize:  16,
	}
}

package main

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glimmer/config"
	"github.com/pthm-cable/glimmer/game"
	"github.com/pthm-cable/glimmer/renderer"
	"github.com/pthm-cable/glimmer/surface"
	"github.com/pthm-cable/glimmer/ui"
)

const controlsHint = "Space pause | R reset | S snapshot | F1 panel | Tab keys | H/T/L/V/B overlays"

// runWindow opens a raylib window and presents the field until it closes.
func runWindow(ctx context.Context, cfg *config.Config, opts game.Options) error {
	base, err := surface.ParseColor(cfg.Screen.Background)
	if err != nil {
		return err
	}

	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0) // Escape deselects in the inspector

	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	bg := renderer.NewBackgroundRenderer(w, h, base)
	s := renderer.NewSurface(w, h, bg)
	win := renderer.NewWindow(s)

	g, err := game.New(cfg, s, win, win, opts)
	if err != nil {
		return err
	}
	defer g.Close()

	v := newView(g, cfg)
	g.Start()
	win.Run(ctx, v.input, v.draw)
	return nil
}

// view holds the debug UI drawn over the field.
type view struct {
	game      *game.Game
	title     string
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	perf      *ui.PerfPanel
	controls  *ui.ControlsPanel
	panel     *ui.Panel
	inspector *ui.Inspector
	particles *renderer.ParticleRenderer
}

func newView(g *game.Game, cfg *config.Config) *view {
	return &view{
		game:      g,
		title:     cfg.Screen.Title,
		overlays:  ui.NewOverlayRegistry(),
		hud:       ui.NewHUD(),
		perf:      ui.NewPerfPanel(6, 112),
		controls:  ui.NewControlsPanel(6, 112, 220),
		panel:     ui.NewPanel(0, 6, 2*cfg.Field.MaxDistance),
		inspector: ui.NewInspector(0, 0),
		particles: renderer.NewParticleRenderer(),
	}
}

// input runs before each frame.
func (v *view) input() {
	sw := int32(rl.GetScreenWidth())
	v.panel.SetPosition(float32(sw-266), 6)
	v.inspector.SetPosition(sw-226, 162)
	if v.controls.IsVisible() {
		v.perf.SetPosition(232, 112)
	} else {
		v.perf.SetPosition(6, 112)
	}

	ui.HandleInput(v.game, v.overlays, v.controls, v.panel)
	v.inspector.HandleInput(v.game.Field(), v.panel.Bounds())
}

// draw runs after the field has drawn, inside the same display frame.
func (v *view) draw() {
	v.game.PerfCollector().RecordFrame()
	f := v.game.Field()

	if v.overlays.IsEnabled(ui.OverlayLinkDistances) {
		v.particles.DrawLinkDistances(f)
	}
	if v.overlays.IsEnabled(ui.OverlayVelocities) {
		v.particles.DrawVelocities(f)
	}
	if v.overlays.IsEnabled(ui.OverlayBounds) {
		v.particles.DrawBounds(f)
	}
	v.particles.DrawSelection(f, v.inspector.Selected())

	sw, sh := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if v.overlays.IsEnabled(ui.OverlayHUD) {
		clients := -1
		if v.game.Streaming() {
			clients = v.game.StreamClients()
		}
		v.hud.Draw(ui.HUDData{
			Title:        v.title,
			Frame:        v.game.Frames(),
			FPS:          rl.GetFPS(),
			Particles:    f.Len(),
			Links:        len(v.game.Links()),
			MaxDistance:  v.game.MaxDistance(),
			Resizes:      f.Resizes(),
			Paused:       v.game.Paused(),
			ScreenWidth:  sw,
			ScreenHeight: sh,
			Clients:      clients,
			Status:       v.panel.Status(),
		})
		v.hud.DrawControls(sh, controlsHint)
	}
	v.controls.Draw(v.overlays)
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perf.Draw(v.game.Perf())
	}
	v.panel.Draw(v.game)
	v.inspector.Draw(f)
}

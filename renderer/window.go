package renderer

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glimmer/loop"
)

// Window is the frame scheduler and resize source of an open raylib window.
// Frame callbacks run inside BeginDrawing/EndDrawing, one batch per display frame.
type Window struct {
	loop.Queue

	resizes loop.ResizeNotifier
	surface *Surface
}

// NewWindow wraps the already-initialized raylib window, tracking its size through s.
func NewWindow(s *Surface) *Window {
	return &Window{surface: s}
}

// Subscribe registers fn for window resizes. It implements loop.ResizeSource.
func (w *Window) Subscribe(fn func(w, h float64)) func() {
	return w.resizes.Subscribe(fn)
}

// PollResize notifies subscribers when the window size no longer matches
// the surface. Sizes the surface set itself do not notify.
func (w *Window) PollResize() bool {
	if !rl.IsWindowResized() {
		return false
	}
	nw, nh := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
	if nw == w.surface.Width() && nh == w.surface.Height() {
		return false
	}
	w.resizes.Notify(nw, nh)
	return true
}

// Frame runs the pending frame callbacks, then overlay, as one display frame.
func (w *Window) Frame(overlay func()) int {
	rl.BeginDrawing()
	n := w.RunPending()
	if n == 0 {
		// Nothing scheduled; keep the page visible
		w.surface.ClearRect(0, 0, w.surface.Width(), w.surface.Height())
	}
	if overlay != nil {
		overlay()
	}
	rl.EndDrawing()
	return n
}

// Run presents frames until the window closes or ctx is cancelled.
// input runs before each frame, after resizes have been delivered.
func (w *Window) Run(ctx context.Context, input, overlay func()) {
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return
		}
		w.PollResize()
		if input != nil {
			input()
		}
		w.Frame(overlay)
	}
}

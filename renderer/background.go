package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glimmer/surface"
)

// blob is a soft colored glow behind the field.
type blob struct {
	left, top     float32 // Offset of the blob's box; negative left anchors to the right edge
	width, height float32
	centered      bool // Box starts at the horizontal middle
	color         rl.Color
}

// Page glows, boxes in pixels from the top-left (or top-right) of the window.
var defaultBlobs = []blob{
	{top: 290, width: 500, height: 400, centered: true, color: rl.Color{R: 249, G: 168, B: 212, A: 255}},
	{left: 120, top: 180, width: 400, height: 500, color: rl.Color{R: 139, G: 92, B: 246, A: 255}},
	{left: -130, top: 180, width: 400, height: 500, color: rl.Color{R: 139, G: 92, B: 246, A: 255}},
}

// blobAlpha is the opacity at a blob's center.
const blobAlpha = 0.45

// BackgroundRenderer paints the page behind the transparent field: a
// horizontal white to base gradient with blurred glows on top.
type BackgroundRenderer struct {
	from, to rl.Color
	blobs    []blob

	screenW, screenH float32
}

// NewBackgroundRenderer creates a background of w x h fading into base.
func NewBackgroundRenderer(w, h int, base surface.Color) *BackgroundRenderer {
	return &BackgroundRenderer{
		from:    rl.Fade(rl.White, 0.5),
		to:      toColor(base),
		blobs:   defaultBlobs,
		screenW: float32(w),
		screenH: float32(h),
	}
}

// Resize updates the painted area.
func (b *BackgroundRenderer) Resize(w, h float64) {
	b.screenW, b.screenH = float32(w), float32(h)
}

// Draw paints the background over the whole window.
func (b *BackgroundRenderer) Draw() {
	rl.ClearBackground(b.to)
	rl.DrawRectangleGradientH(0, 0, int32(b.screenW), int32(b.screenH), b.from, b.to)

	for _, bl := range b.blobs {
		x := bl.left
		switch {
		case bl.centered:
			x = b.screenW / 2
		case bl.left < 0:
			x = b.screenW + bl.left - bl.width
		}
		cx := x + bl.width/2
		cy := bl.top + bl.height/2
		radius := max(bl.width, bl.height) / 2
		rl.DrawCircleGradient(int32(cx), int32(cy), radius, rl.Fade(bl.color, blobAlpha), rl.Fade(bl.color, 0))
	}
}

package renderer

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glimmer/field"
)

// velocityScale stretches velocity vectors so sub-pixel speeds are visible.
const velocityScale = 40

// ParticleRenderer draws debug overlays for the field's particles.
type ParticleRenderer struct {
	fontSize int32
}

// NewParticleRenderer creates a new particle overlay renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{fontSize: 10}
}

// DrawLinkDistances labels every drawn link with its length and alpha.
func (r *ParticleRenderer) DrawLinkDistances(f *field.Field) {
	ps := f.Particles()
	for _, l := range f.Links() {
		a, b := ps[l.A], ps[l.B]
		mx := int32((a.X + b.X) / 2)
		my := int32((a.Y + b.Y) / 2)
		text := fmt.Sprintf("%.0f (%.2f)", l.Distance, l.Alpha)
		rl.DrawText(text, mx+4, my-r.fontSize-2, r.fontSize, rl.Fade(rl.DarkPurple, 0.8))
	}
}

// DrawVelocities draws each particle's velocity as a scaled arrow.
// Positions decrease by velocity, so the arrow points along -V.
func (r *ParticleRenderer) DrawVelocities(f *field.Field) {
	for i, p := range f.Particles() {
		start := rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
		end := rl.Vector2{X: float32(p.X - p.VX*velocityScale), Y: float32(p.Y - p.VY*velocityScale)}
		rl.DrawLineV(start, end, rl.Orange)
		rl.DrawCircle(int32(end.X), int32(end.Y), 2, rl.Orange)

		speed := math.Hypot(p.VX, p.VY)
		rl.DrawText(fmt.Sprintf("#%d %.2f", i, speed), int32(p.X)+6, int32(p.Y)+6, r.fontSize, rl.DarkGray)
	}
}

// DrawBounds outlines the area particle centers are confined to and
// each particle's reach under the current connection threshold.
func (r *ParticleRenderer) DrawBounds(f *field.Field) {
	b := f.Bounds()
	for _, p := range f.Particles() {
		rl.DrawCircleLines(int32(p.X), int32(p.Y), float32(f.MaxDistance()), rl.Fade(rl.Violet, 0.15))
	}
	if f.Len() == 0 {
		return
	}
	rad := f.Particle(0).Radius
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X:      float32(rad),
		Y:      float32(rad),
		Width:  float32(b.Width - 2*rad),
		Height: float32(b.Height - 2*rad),
	}, 1, rl.Fade(rl.Maroon, 0.6))
}

// DrawSelection rings particle i.
func (r *ParticleRenderer) DrawSelection(f *field.Field, i int) {
	if i < 0 || i >= f.Len() {
		return
	}
	p := f.Particle(i)
	rl.DrawCircleLines(int32(p.X), int32(p.Y), float32(p.Radius+6), rl.Gold)
	rl.DrawCircleLines(int32(p.X), int32(p.Y), float32(p.Radius+7), rl.Gold)
}
